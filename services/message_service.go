//go:generate go run go.uber.org/mock/mockgen -source=message_service.go -destination=../mocks/mock_message_service.go -package=mocks
package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"courier/cache"
	"courier/domain"
	"courier/domain/event"
	"courier/errors"
	"courier/repositories"

	"github.com/google/uuid"
)

type IMessageService interface {
	SendDirect(ctx context.Context, senderID, recipientID, content string) (domain.Message, error)
	PostToThread(ctx context.Context, senderID string, threadID uuid.UUID, content string) (domain.Message, error)
	GetMessagesForUser(userID string) ([]domain.Message, error)
	ListThreadsForUser(userID string) ([]domain.Thread, error)
}

// MessageService validates and persists new messages, applies thread
// authorization, invalidates affected cache entries and enqueues
// notification jobs for the direct-send path.
type MessageService struct {
	resolver      IThreadResolver
	threads       repositories.IThreadRepository
	messages      repositories.IMessageRepository
	users         repositories.IUserRepository
	cache         *cache.MessageCache
	notifications chan<- event.MessageSent
	log           *slog.Logger
}

func NewMessageService(
	resolver IThreadResolver,
	threads repositories.IThreadRepository,
	messages repositories.IMessageRepository,
	users repositories.IUserRepository,
	messageCache *cache.MessageCache,
	notifications chan<- event.MessageSent,
	log *slog.Logger,
) *MessageService {
	return &MessageService{
		resolver:      resolver,
		threads:       threads,
		messages:      messages,
		users:         users,
		cache:         messageCache,
		notifications: notifications,
		log:           log,
	}
}

// SendDirect routes a message to the recipient's canonical thread, creating
// the thread on first contact. On success a notification job is enqueued for
// the recipient and the cache entry of every thread participant is dropped.
func (s *MessageService) SendDirect(ctx context.Context, senderID, recipientID, content string) (domain.Message, error) {
	if strings.TrimSpace(content) == "" {
		return domain.Message{}, errors.ErrEmptyContent
	}

	recipient, err := s.users.GetByID(recipientID)
	if err != nil {
		return domain.Message{}, err
	}

	thread, err := s.resolver.Resolve(senderID, recipientID)
	if err != nil {
		return domain.Message{}, err
	}

	message, err := s.persist(thread.ID, senderID, content)
	if err != nil {
		// No partial effects: a failed write enqueues nothing and
		// invalidates nothing.
		return domain.Message{}, err
	}

	s.enqueueNotification(thread, senderID, recipient, content, message.CreatedAt)
	s.cache.Invalidate(thread.Participants...)
	return message, nil
}

// PostToThread appends a message to a known thread. The sender must already
// be a participant. Only the sender's cache entry is invalidated and no
// notification is sent on this path: the original system notifies on direct
// sends only, and that asymmetry is preserved on purpose.
func (s *MessageService) PostToThread(ctx context.Context, senderID string, threadID uuid.UUID, content string) (domain.Message, error) {
	thread, err := s.threads.GetThread(threadID)
	if err != nil {
		return domain.Message{}, err
	}
	if !thread.HasParticipant(senderID) {
		return domain.Message{}, errors.ErrForbidden
	}
	if strings.TrimSpace(content) == "" {
		return domain.Message{}, errors.ErrEmptyContent
	}

	message, err := s.persist(thread.ID, senderID, content)
	if err != nil {
		return domain.Message{}, err
	}

	s.cache.Invalidate(senderID)
	return message, nil
}

// GetMessagesForUser returns every message visible to the user, through the
// read-through cache. A miss scans all of the user's threads and stores the
// result under the user's key.
func (s *MessageService) GetMessagesForUser(userID string) ([]domain.Message, error) {
	if cached, ok := s.cache.Get(userID); ok {
		return cached, nil
	}

	messages, err := s.collectMessages(userID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(userID, messages)
	return messages, nil
}

func (s *MessageService) ListThreadsForUser(userID string) ([]domain.Thread, error) {
	return s.threads.ListThreadsForUser(userID)
}

func (s *MessageService) persist(threadID uuid.UUID, senderID, content string) (domain.Message, error) {
	message := domain.Message{
		ID:        uuid.New(),
		ThreadID:  threadID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.messages.StoreMessage(message); err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

// collectMessages flattens the user's threads into one chronological list.
// Per-thread order comes from the store's key layout; the final sort merges
// threads by creation time with the message ID as a stable tie-break.
func (s *MessageService) collectMessages(userID string) ([]domain.Message, error) {
	threads, err := s.threads.ListThreadsForUser(userID)
	if err != nil {
		return nil, err
	}

	var all []domain.Message
	for _, thread := range threads {
		messages, err := s.messages.GetMessagesByThread(thread.ID)
		if err != nil {
			return nil, err
		}
		all = append(all, messages...)
	}
	sortMessages(all)
	return all, nil
}

// enqueueNotification hands a snapshot of the message to the notifier queue.
// The send path never blocks on dispatch: when the queue is full the alert
// is dropped with a warning, keeping notifications best-effort.
func (s *MessageService) enqueueNotification(thread domain.Thread, senderID string, recipient repositories.User, content string, at time.Time) {
	sender, err := s.users.GetByID(senderID)
	senderName := senderID
	if err == nil {
		senderName = sender.Username
	}

	job := event.MessageSent{
		ThreadID:       thread.ID,
		SenderName:     senderName,
		RecipientEmail: recipient.Email,
		Content:        content,
		At:             at,
	}
	select {
	case s.notifications <- job:
	default:
		s.log.Warn("Notification queue full, dropping alert",
			"recipient", recipient.ID, "thread", thread.ID)
	}
}
