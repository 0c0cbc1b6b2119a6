package services

import (
	"context"
	"testing"
	"time"

	"courier/domain"
	"courier/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_SendDirect_First_Contact(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()

	alice := f.registerUser(t, "alice")
	bob := f.registerUser(t, "bob")

	message, err := f.service.SendDirect(ctx, alice, bob, "Hello World")
	req.NoError(err)
	req.Equal(alice, message.SenderID)
	req.Equal("Hello World", message.Content)
	req.NotEqual(uuid.Nil, message.ID)

	thread, err := f.threads.GetThread(message.ThreadID)
	req.NoError(err)
	req.ElementsMatch([]string{alice, bob}, thread.Participants)

	// The notification job carries a snapshot addressed to the recipient.
	select {
	case job := <-f.notifications:
		req.Equal("bob@example.com", job.RecipientEmail)
		req.Equal("alice", job.SenderName)
		req.Equal("Hello World", job.Content)
		req.Equal(thread.ID, job.ThreadID)
	default:
		t.Fatal("expected a notification job to be enqueued")
	}
}

func Test_SendDirect_Reuses_Existing_Thread(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()

	alice := f.registerUser(t, "alice")
	bob := f.registerUser(t, "bob")

	first, err := f.service.SendDirect(ctx, alice, bob, "one")
	req.NoError(err)
	second, err := f.service.SendDirect(ctx, bob, alice, "two")
	req.NoError(err)
	req.Equal(first.ThreadID, second.ThreadID)

	messages, err := f.messages.GetMessagesByThread(first.ThreadID)
	req.NoError(err)
	req.Len(messages, 2)
}

func Test_SendDirect_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.registerUser(t, "alice")
	bob := f.registerUser(t, "bob")

	t.Run("empty content", func(t *testing.T) {
		_, err := f.service.SendDirect(ctx, alice, bob, "   ")
		require.ErrorIs(t, err, errors.ErrEmptyContent)
	})

	t.Run("unknown recipient", func(t *testing.T) {
		_, err := f.service.SendDirect(ctx, alice, "no-such-user", "hi")
		require.ErrorIs(t, err, errors.ErrUserNotFound)
	})

	t.Run("self send", func(t *testing.T) {
		_, err := f.service.SendDirect(ctx, alice, alice, "hi me")
		require.ErrorIs(t, err, errors.ErrInvalidParticipants)
	})

	// None of the failures above may have enqueued anything.
	select {
	case <-f.notifications:
		t.Fatal("no notification expected for a failed send")
	default:
	}
}

func Test_PostToThread(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.registerUser(t, "alice")
	bob := f.registerUser(t, "bob")
	clara := f.registerUser(t, "clara")

	seed, err := f.service.SendDirect(ctx, alice, bob, "opening")
	require.NoError(t, err)
	<-f.notifications // drain the direct-send alert

	t.Run("participant can post", func(t *testing.T) {
		req := require.New(t)
		message, err := f.service.PostToThread(ctx, bob, seed.ThreadID, "reply")
		req.NoError(err)
		req.Equal(seed.ThreadID, message.ThreadID)

		// Thread posts never notify; only direct sends do.
		select {
		case <-f.notifications:
			t.Fatal("no notification expected on the thread path")
		default:
		}
	})

	t.Run("non participant is forbidden", func(t *testing.T) {
		_, err := f.service.PostToThread(ctx, clara, seed.ThreadID, "intruding")
		require.ErrorIs(t, err, errors.ErrForbidden)
	})

	t.Run("unknown thread", func(t *testing.T) {
		_, err := f.service.PostToThread(ctx, alice, uuid.New(), "lost")
		require.ErrorIs(t, err, errors.ErrThreadNotFound)
	})

	t.Run("empty content", func(t *testing.T) {
		_, err := f.service.PostToThread(ctx, alice, seed.ThreadID, "")
		require.ErrorIs(t, err, errors.ErrEmptyContent)
	})
}

func Test_GetMessagesForUser_Reads_Through_Cache(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()

	alice := f.registerUser(t, "alice")
	bob := f.registerUser(t, "bob")

	seed, err := f.service.SendDirect(ctx, alice, bob, "first")
	req.NoError(err)

	messages, err := f.service.GetMessagesForUser(alice)
	req.NoError(err)
	req.Len(messages, 1)

	// Write to the store behind the service's back: the cached entry must
	// still be served as-is inside the TTL window.
	req.NoError(f.messages.StoreMessage(domain.Message{
		ID:        uuid.New(),
		ThreadID:  seed.ThreadID,
		SenderID:  bob,
		Content:   "sneaky",
		CreatedAt: time.Now().UTC(),
	}))

	cached, err := f.service.GetMessagesForUser(alice)
	req.NoError(err)
	req.Len(cached, 1)
}

func Test_Cache_Freshness_After_Write(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()

	alice := f.registerUser(t, "alice")
	bob := f.registerUser(t, "bob")

	_, err := f.service.SendDirect(ctx, alice, bob, "first")
	req.NoError(err)

	// Populate both caches.
	_, err = f.service.GetMessagesForUser(alice)
	req.NoError(err)
	_, err = f.service.GetMessagesForUser(bob)
	req.NoError(err)

	// A new direct send must invalidate every participant, so the very
	// next read observes the message well before the TTL expires.
	_, err = f.service.SendDirect(ctx, bob, alice, "second")
	req.NoError(err)

	aliceView, err := f.service.GetMessagesForUser(alice)
	req.NoError(err)
	req.Len(aliceView, 2)

	bobView, err := f.service.GetMessagesForUser(bob)
	req.NoError(err)
	req.Len(bobView, 2)
}

func Test_PostToThread_Invalidates_Sender_Only(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()

	alice := f.registerUser(t, "alice")
	bob := f.registerUser(t, "bob")

	seed, err := f.service.SendDirect(ctx, alice, bob, "opening")
	req.NoError(err)

	_, err = f.service.GetMessagesForUser(alice)
	req.NoError(err)
	_, err = f.service.GetMessagesForUser(bob)
	req.NoError(err)

	_, err = f.service.PostToThread(ctx, alice, seed.ThreadID, "followup")
	req.NoError(err)

	// The sender's next read is fresh.
	aliceView, err := f.service.GetMessagesForUser(alice)
	req.NoError(err)
	req.Len(aliceView, 2)

	// The other participant keeps their cached view until expiry, the
	// documented staleness tradeoff of the thread path.
	bobView, err := f.service.GetMessagesForUser(bob)
	req.NoError(err)
	req.Len(bobView, 1)
}
