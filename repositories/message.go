//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"courier/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IMessageRepository interface {
	StoreMessage(message domain.Message) error
	GetMessagesByThread(threadID uuid.UUID) ([]domain.Message, error)
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) IMessageRepository {
	return &MessageRepository{db: db, log: log}
}

// DiskMessage is the JSON value stored under the message key.
type DiskMessage struct {
	ID       string
	ThreadID string
	SenderID string
	Content  string
	At       time.Time
}

// StoreMessage persists a message in BadgerDB.
// The key is formatted as "msg:{thread_id}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two messages
//     arrive at the same nanosecond.
func (m MessageRepository) StoreMessage(message domain.Message) error {
	key := fmt.Sprintf("msg:%s:%019d:%s",
		message.ThreadID,
		message.CreatedAt.UnixNano(),
		message.ID,
	)
	data, err := json.Marshal(fromDomainMessage(message))
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// GetMessagesByThread retrieves a thread's messages using a prefix scan.
// Thanks to the padded timestamp in the key, messages come back naturally
// sorted by creation time, oldest first.
func (m MessageRepository) GetMessagesByThread(threadID uuid.UUID) ([]domain.Message, error) {
	var raw [][]byte
	prefix := []byte(fmt.Sprintf("msg:%s:", threadID))
	err := m.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				raw = append(raw, append([]byte(nil), value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	messages := make([]domain.Message, 0, len(raw))
	for _, b := range raw {
		var disk DiskMessage
		if err = json.Unmarshal(b, &disk); err != nil {
			return nil, err
		}
		message, err := toDomainMessage(disk)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func fromDomainMessage(message domain.Message) DiskMessage {
	return DiskMessage{
		ID:       message.ID.String(),
		ThreadID: message.ThreadID.String(),
		SenderID: message.SenderID,
		Content:  message.Content,
		At:       message.CreatedAt,
	}
}

func toDomainMessage(disk DiskMessage) (domain.Message, error) {
	id, err := uuid.Parse(disk.ID)
	if err != nil {
		return domain.Message{}, err
	}
	threadID, err := uuid.Parse(disk.ThreadID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:        id,
		ThreadID:  threadID,
		SenderID:  disk.SenderID,
		Content:   disk.Content,
		CreatedAt: disk.At,
	}, nil
}
