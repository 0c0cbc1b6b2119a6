//go:generate go run go.uber.org/mock/mockgen -source=thread.go -destination=../mocks/mock_thread_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	goerrors "errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"courier/domain"
	"courier/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IThreadRepository interface {
	CreateThread(participants []string) (domain.Thread, error)
	GetThread(id uuid.UUID) (domain.Thread, error)
	FindByPair(a, b string) (domain.Thread, bool, error)
	AddParticipant(threadID uuid.UUID, userID string) (domain.Thread, error)
	ListThreadsForUser(userID string) ([]domain.Thread, error)
}

type ThreadRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewThreadRepository(db *badger.DB, log *slog.Logger) IThreadRepository {
	return &ThreadRepository{db: db, log: log}
}

// DiskThread is the JSON value stored under "thread:{id}".
type DiskThread struct {
	ID           string
	Participants []string
	CreatedAt    time.Time
}

// pairKey normalizes an unordered two-party pair into one index key,
// so that (A,B) and (B,A) collide on the same entry.
func pairKey(a, b string) []byte {
	if a > b {
		a, b = b, a
	}
	return []byte("idx:pair:" + a + ":" + b)
}

func memberKey(userID, threadID string) []byte {
	return []byte("idx:member:" + userID + ":" + threadID)
}

// CreateThread persists a new thread together with its pair index (for
// exactly two participants) and one membership index entry per participant,
// all in a single transaction. The pair index doubles as the uniqueness
// constraint: two racing creations for the same pair conflict under Badger's
// SSI, and the loser surfaces badger.ErrConflict to the caller, which is
// expected to retry as a lookup.
func (r ThreadRepository) CreateThread(participants []string) (domain.Thread, error) {
	thread := domain.Thread{
		ID:           uuid.New(),
		Participants: participants,
		CreatedAt:    time.Now().UTC(),
	}
	data, err := json.Marshal(fromDomainThread(thread))
	if err != nil {
		return domain.Thread{}, fmt.Errorf("marshal failed: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		if len(participants) == 2 {
			pk := pairKey(participants[0], participants[1])
			if _, err := txn.Get(pk); err == nil {
				// A thread for this pair already exists: report it
				// as a conflict so the resolver falls back to lookup.
				return badger.ErrConflict
			}
			if err := txn.Set(pk, []byte(thread.ID.String())); err != nil {
				return err
			}
		}
		for _, p := range participants {
			if err := txn.Set(memberKey(p, thread.ID.String()), nil); err != nil {
				return err
			}
		}
		return txn.Set([]byte("thread:"+thread.ID.String()), data)
	})
	if err != nil {
		return domain.Thread{}, err
	}
	return thread, nil
}

func (r ThreadRepository) GetThread(id uuid.UUID) (domain.Thread, error) {
	var disk DiskThread
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("thread:" + id.String()))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &disk)
		})
	})
	if err != nil {
		if goerrors.Is(err, badger.ErrKeyNotFound) {
			return domain.Thread{}, errors.ErrThreadNotFound
		}
		return domain.Thread{}, err
	}
	return toDomainThread(disk)
}

// FindByPair returns the canonical thread shared by a and b, if any.
// The exact pair index is checked first; failing that, every thread a is a
// member of is scanned for b's membership, earliest-created winning the
// tie-break so repeated lookups stay deterministic.
func (r ThreadRepository) FindByPair(a, b string) (domain.Thread, bool, error) {
	var threadID string
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(pairKey(a, b))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			threadID = string(val)
			return nil
		})
	})
	switch {
	case err == nil:
		id, err := uuid.Parse(threadID)
		if err != nil {
			return domain.Thread{}, false, err
		}
		thread, err := r.GetThread(id)
		if err != nil {
			return domain.Thread{}, false, err
		}
		return thread, true, nil
	case !goerrors.Is(err, badger.ErrKeyNotFound):
		return domain.Thread{}, false, err
	}

	// No exact pair entry: fall back to membership overlap, which also
	// catches pre-existing multi-party threads containing both users.
	threads, err := r.ListThreadsForUser(a)
	if err != nil {
		return domain.Thread{}, false, err
	}
	for _, t := range threads {
		if t.HasParticipant(b) {
			return t, true, nil
		}
	}
	return domain.Thread{}, false, nil
}

// AddParticipant appends userID to the thread's participant set and
// maintains the membership index. Idempotent for existing participants.
func (r ThreadRepository) AddParticipant(threadID uuid.UUID, userID string) (domain.Thread, error) {
	var updated domain.Thread
	err := r.db.Update(func(txn *badger.Txn) error {
		key := []byte("thread:" + threadID.String())
		item, err := txn.Get(key)
		if err != nil {
			if goerrors.Is(err, badger.ErrKeyNotFound) {
				return errors.ErrThreadNotFound
			}
			return err
		}
		var disk DiskThread
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &disk)
		}); err != nil {
			return err
		}
		thread, err := toDomainThread(disk)
		if err != nil {
			return err
		}
		if thread.HasParticipant(userID) {
			updated = thread
			return nil
		}
		thread.AddParticipant(userID)
		data, err := json.Marshal(fromDomainThread(thread))
		if err != nil {
			return err
		}
		if err := txn.Set(memberKey(userID, thread.ID.String()), nil); err != nil {
			return err
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}
		updated = thread
		return nil
	})
	if err != nil {
		return domain.Thread{}, err
	}
	return updated, nil
}

// ListThreadsForUser scans the "idx:member:{user}:" prefix and loads each
// referenced thread, sorted by creation time (oldest first).
func (r ThreadRepository) ListThreadsForUser(userID string) ([]domain.Thread, error) {
	var ids []string
	prefix := []byte("idx:member:" + userID + ":")
	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			ids = append(ids, strings.TrimPrefix(key, string(prefix)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	threads := make([]domain.Thread, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			r.log.Warn("Skipping malformed membership index entry", "key", raw)
			continue
		}
		thread, err := r.GetThread(id)
		if err != nil {
			return nil, err
		}
		threads = append(threads, thread)
	}
	sort.Slice(threads, func(i, j int) bool {
		if threads[i].CreatedAt.Equal(threads[j].CreatedAt) {
			return threads[i].ID.String() < threads[j].ID.String()
		}
		return threads[i].CreatedAt.Before(threads[j].CreatedAt)
	})
	return threads, nil
}

func fromDomainThread(t domain.Thread) DiskThread {
	return DiskThread{
		ID:           t.ID.String(),
		Participants: t.Participants,
		CreatedAt:    t.CreatedAt,
	}
}

func toDomainThread(d DiskThread) (domain.Thread, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.Thread{}, err
	}
	return domain.Thread{
		ID:           id,
		Participants: d.Participants,
		CreatedAt:    d.CreatedAt,
	}, nil
}
