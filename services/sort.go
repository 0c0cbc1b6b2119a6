package services

import (
	"sort"

	"courier/domain"
)

// sortMessages orders messages by creation time ascending, with the message
// ID as a deterministic tie-break for identical timestamps.
func sortMessages(messages []domain.Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		if messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].ID.String() < messages[j].ID.String()
		}
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
}
