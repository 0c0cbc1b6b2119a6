package services

import (
	"log/slog"
	"testing"
	"time"

	"courier/cache"
	"courier/domain/event"
	"courier/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

// fixture wires the whole messaging core on a throwaway Badger instance.
// Notifications land in a buffered channel the tests can drain.
type fixture struct {
	users         repositories.IUserRepository
	threads       repositories.IThreadRepository
	messages      repositories.IMessageRepository
	cache         *cache.MessageCache
	notifications chan event.MessageSent
	resolver      IThreadResolver
	service       *MessageService
	search        ISearchService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.Default()
	f := &fixture{
		users:         repositories.NewUserRepository(db),
		threads:       repositories.NewThreadRepository(db, log),
		messages:      repositories.NewMessageRepository(db, log),
		cache:         cache.NewMessageCache(15 * time.Minute),
		notifications: make(chan event.MessageSent, 16),
	}
	f.resolver = NewThreadResolver(f.threads, log)
	f.service = NewMessageService(
		f.resolver, f.threads, f.messages, f.users,
		f.cache, f.notifications, log)
	f.search = NewSearchService(f.threads, f.messages)
	return f
}

// registerUser creates an account directly at the repository level and
// returns its generated ID.
func (f *fixture) registerUser(t *testing.T, username string) string {
	t.Helper()
	id, err := f.users.CreateUser(username, username+"@example.com", "hash")
	require.NoError(t, err)
	return id
}
