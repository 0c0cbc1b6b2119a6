// Package event defines the asynchronous jobs exchanged between the
// message service and the background workers.
package event

import (
	"time"

	"github.com/google/uuid"
)

// MessageSent is the notification job enqueued after a direct send.
// SenderName and Content are snapshots taken at send time; the worker
// never reads the store again.
type MessageSent struct {
	ThreadID       uuid.UUID
	SenderName     string
	RecipientEmail string
	Content        string
	At             time.Time
}
