// Package domain contains core concepts of the messaging system.
// This file defines Thread entities and membership invariants.
// A thread's participant set is append-only: participants may be added,
// never removed, and a thread always holds at least two of them.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Thread is a conversation container shared by two or more participants.
type Thread struct {
	ID           uuid.UUID
	Participants []string
	CreatedAt    time.Time
}

// HasParticipant reports whether userID is a member of the thread.
func (t Thread) HasParticipant(userID string) bool {
	return lo.Contains(t.Participants, userID)
}

// AddParticipant appends userID to the participant set.
// Adding an existing participant is a no-op, keeping the set duplicate-free.
func (t *Thread) AddParticipant(userID string) {
	if t.HasParticipant(userID) {
		return
	}
	t.Participants = append(t.Participants, userID)
}
