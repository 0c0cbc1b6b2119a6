package services

import (
	"strings"

	"courier/domain"
	"courier/repositories"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type ISearchService interface {
	Search(userID, query string, threadID *uuid.UUID) ([]domain.Message, error)
}

// SearchService filters a user's visible messages by free-text content
// match and optional thread scope. Matching is plain case-insensitive
// substring containment: no tokenization, no ranking.
type SearchService struct {
	threads  repositories.IThreadRepository
	messages repositories.IMessageRepository
}

func NewSearchService(threads repositories.IThreadRepository, messages repositories.IMessageRepository) ISearchService {
	return &SearchService{threads: threads, messages: messages}
}

// Search never leaves the caller's threads: that base scope is the
// authorization boundary. A threadID outside the caller's threads therefore
// yields a silent empty result rather than an error.
func (s *SearchService) Search(userID, query string, threadID *uuid.UUID) ([]domain.Message, error) {
	threads, err := s.threads.ListThreadsForUser(userID)
	if err != nil {
		return nil, err
	}
	if threadID != nil {
		threads = lo.Filter(threads, func(t domain.Thread, _ int) bool {
			return t.ID == *threadID
		})
	}

	var results []domain.Message
	loweredQuery := strings.ToLower(query)
	for _, thread := range threads {
		messages, err := s.messages.GetMessagesByThread(thread.ID)
		if err != nil {
			return nil, err
		}
		if query != "" {
			messages = lo.Filter(messages, func(m domain.Message, _ int) bool {
				return strings.Contains(strings.ToLower(m.Content), loweredQuery)
			})
		}
		results = append(results, messages...)
	}
	sortMessages(results)
	return results, nil
}
