package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/example/quizbot/internal/profile"
	"github.com/example/quizbot/pkg/models"
)

// Mode identifies how a session's batch was assembled
type Mode string

const (
	// ModeDailySprint is the mixed new/review session
	ModeDailySprint Mode = "daily_sprint"
	// ModeCategory is the weakest-first single-category session
	ModeCategory Mode = "category"
)

// Session owns the state of one quiz round: the batch under play and the
// user's profile cache. It is created by the Service, handed to the
// caller, and never shared between users or retained by the core.
type Session struct {
	ID        string
	UserID    string
	Mode      Mode
	Category  string // Set only for ModeCategory
	Batch     []models.Question
	Cache     *profile.Cache
	StartedAt time.Time
}

func newSession(userID string, mode Mode, category string, batch []models.Question, cache *profile.Cache) *Session {
	return &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Mode:      mode,
		Category:  category,
		Batch:     batch,
		Cache:     cache,
		StartedAt: time.Now(),
	}
}

// Size returns the number of questions in the batch
func (s *Session) Size() int {
	return len(s.Batch)
}
