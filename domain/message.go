// Package domain contains core concepts of the messaging system.
// This file defines Message entities and related rules.
// Messages are immutable once persisted; validation happens in the service layer.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents one immutable unit of conversation content,
// bound to exactly one thread and one sender.
type Message struct {
	ID        uuid.UUID
	ThreadID  uuid.UUID
	SenderID  string
	Content   string
	CreatedAt time.Time
}
