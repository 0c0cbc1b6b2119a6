package httpserver

import (
	"time"

	"courier/domain"
	"courier/repositories"

	"github.com/samber/lo"
)

// Wire representations of the API. Timestamps are RFC 3339 UTC.

type userJSON struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type messageJSON struct {
	ID        string   `json:"id"`
	Sender    userJSON `json:"sender"`
	Thread    string   `json:"thread"`
	Content   string   `json:"content"`
	CreatedAt string   `json:"created_at"`
}

type threadJSON struct {
	ID           string        `json:"id"`
	Participants []userJSON    `json:"participants"`
	Messages     []messageJSON `json:"messages"`
}

// userResolver embeds sender details into message payloads.
// Lookups hit the user repository once per distinct ID per request.
type userResolver struct {
	users repositories.IUserRepository
	seen  map[string]userJSON
}

func newUserResolver(users repositories.IUserRepository) *userResolver {
	return &userResolver{users: users, seen: make(map[string]userJSON)}
}

func (r *userResolver) resolve(userID string) userJSON {
	if u, ok := r.seen[userID]; ok {
		return u
	}
	u := userJSON{ID: userID}
	if record, err := r.users.GetByID(userID); err == nil {
		user := record.ToDomain()
		u.Username = user.Username
		u.Email = user.Email
	}
	r.seen[userID] = u
	return u
}

func (r *userResolver) message(m domain.Message) messageJSON {
	return messageJSON{
		ID:        m.ID.String(),
		Sender:    r.resolve(m.SenderID),
		Thread:    m.ThreadID.String(),
		Content:   m.Content,
		CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (r *userResolver) messages(messages []domain.Message) []messageJSON {
	return lo.Map(messages, func(m domain.Message, _ int) messageJSON {
		return r.message(m)
	})
}

func (r *userResolver) thread(t domain.Thread, messages []domain.Message) threadJSON {
	return threadJSON{
		ID: t.ID.String(),
		Participants: lo.Map(t.Participants, func(id string, _ int) userJSON {
			return r.resolve(id)
		}),
		Messages: r.messages(messages),
	}
}
