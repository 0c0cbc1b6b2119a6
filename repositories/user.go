//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	goerrors "errors"
	"fmt"
	"time"

	"courier/domain"
	"courier/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IUserRepository interface {
	CreateUser(username, email, hashedPassword string) (string, error)
	GetByUsername(username string) (User, error)
	GetByID(id string) (User, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

// User is the disk representation of an account.
// The messaging core only ever sees domain.User; the password hash
// never leaves this layer except through the auth service.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

func (u User) ToDomain() domain.User {
	return domain.User{ID: u.ID, Username: u.Username, Email: u.Email}
}

// CreateUser persists the account under "user:{id}" and maintains the
// "idx:username:{username}" uniqueness index in the same transaction.
// It returns the newly generated user ID.
func (u UserRepository) CreateUser(username, email, hashedPassword string) (string, error) {
	newID := uuid.New().String()
	record := User{
		ID:           newID,
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().UTC(),
	}

	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("marshal failed: %w", err)
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		idxKey := []byte("idx:username:" + username)
		if _, err := txn.Get(idxKey); err == nil {
			return errors.ErrUserAlreadyExists
		}
		if err := txn.Set(idxKey, []byte(newID)); err != nil {
			return err
		}
		return txn.Set([]byte("user:"+newID), data)
	})

	return newID, err
}

// GetByUsername resolves the username index, then loads the account.
func (u UserRepository) GetByUsername(username string) (User, error) {
	var id string
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("idx:username:" + username))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if err != nil {
		if goerrors.Is(err, badger.ErrKeyNotFound) {
			return User{}, errors.ErrUserNotFound
		}
		return User{}, err
	}
	return u.GetByID(id)
}

func (u UserRepository) GetByID(id string) (User, error) {
	var record User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("user:" + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if err != nil {
		if goerrors.Is(err, badger.ErrKeyNotFound) {
			return User{}, errors.ErrUserNotFound
		}
		return User{}, err
	}
	return record, nil
}
