package cache

import (
	"testing"
	"time"

	"courier/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func someMessages(n int) []domain.Message {
	messages := make([]domain.Message, 0, n)
	for i := 0; i < n; i++ {
		messages = append(messages, domain.Message{
			ID:        uuid.New(),
			ThreadID:  uuid.New(),
			SenderID:  "alice",
			Content:   "cached",
			CreatedAt: time.Now().UTC(),
		})
	}
	return messages
}

func Test_Hit_Within_TTL(t *testing.T) {
	req := require.New(t)
	c := NewMessageCache(DefaultTTL)

	messages := someMessages(2)
	c.Set("alice", messages)

	cached, ok := c.Get("alice")
	req.True(ok)
	req.Equal(messages, cached)
}

func Test_Miss_For_Unknown_User(t *testing.T) {
	req := require.New(t)
	c := NewMessageCache(DefaultTTL)

	_, ok := c.Get("ghost")
	req.False(ok)
}

func Test_Expired_Entry_Is_A_Miss(t *testing.T) {
	req := require.New(t)
	c := NewMessageCache(15 * time.Minute)

	now := time.Now()
	c.now = func() time.Time { return now }
	c.Set("alice", someMessages(1))

	// One nanosecond past the expiry is enough.
	c.now = func() time.Time { return now.Add(15*time.Minute + time.Nanosecond) }
	_, ok := c.Get("alice")
	req.False(ok)
}

func Test_Invalidate_Drops_Only_Targets(t *testing.T) {
	req := require.New(t)
	c := NewMessageCache(DefaultTTL)

	c.Set("alice", someMessages(1))
	c.Set("bob", someMessages(1))
	c.Set("clara", someMessages(1))

	c.Invalidate("alice", "bob")

	_, ok := c.Get("alice")
	req.False(ok)
	_, ok = c.Get("bob")
	req.False(ok)
	_, ok = c.Get("clara")
	req.True(ok)
}
