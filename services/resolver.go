//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=../mocks/mock_resolver.go -package=mocks
package services

import (
	goerrors "errors"
	"log/slog"

	"courier/domain"
	"courier/errors"
	"courier/repositories"

	"github.com/dgraph-io/badger/v4"
)

// maxResolveAttempts bounds the conflict-retry loop. One retry is enough in
// practice (the losing transaction finds the winner's pair index on its
// second pass); the bound only guards against a pathological store.
const maxResolveAttempts = 3

type IThreadResolver interface {
	Resolve(senderID, recipientID string) (domain.Thread, error)
}

// ThreadResolver maps an unordered (sender, recipient) pair to its canonical
// thread, creating one when no thread contains both users yet.
type ThreadResolver struct {
	threads repositories.IThreadRepository
	log     *slog.Logger
}

func NewThreadResolver(threads repositories.IThreadRepository, log *slog.Logger) IThreadResolver {
	return &ThreadResolver{threads: threads, log: log}
}

// Resolve finds or creates the thread holding the conversation between
// sender and recipient.
//
// The find-or-create sequence is a check-then-act race under concurrency:
// two first-contact sends may both observe "not found". The thread
// repository writes a normalized pair index inside the creation transaction,
// so Badger's serializable snapshot isolation fails the second creation with
// ErrConflict. That conflict is recovered locally by retrying the whole
// sequence, which then resolves as a lookup; it never reaches the caller.
func (r *ThreadResolver) Resolve(senderID, recipientID string) (domain.Thread, error) {
	if senderID == recipientID {
		return domain.Thread{}, errors.ErrInvalidParticipants
	}

	var lastErr error
	for attempt := 0; attempt < maxResolveAttempts; attempt++ {
		thread, found, err := r.threads.FindByPair(senderID, recipientID)
		if err != nil {
			return domain.Thread{}, err
		}
		if found {
			// A membership-overlap match (pre-existing multi-party thread)
			// may not include the recipient yet.
			if !thread.HasParticipant(recipientID) {
				return r.threads.AddParticipant(thread.ID, recipientID)
			}
			return thread, nil
		}

		thread, err = r.threads.CreateThread([]string{senderID, recipientID})
		if err == nil {
			return thread, nil
		}
		if !goerrors.Is(err, badger.ErrConflict) {
			return domain.Thread{}, err
		}
		r.log.Debug("Thread creation conflict, retrying as lookup",
			"sender", senderID, "recipient", recipientID)
		lastErr = err
	}
	return domain.Thread{}, lastErr
}
