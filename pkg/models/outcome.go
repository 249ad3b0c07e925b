package models

import "time"

// OutcomeRecord tracks a user's answer history for a single question
type OutcomeRecord struct {
	UserID             string    `json:"user_id" db:"user_id"`
	QuestionID         string    `json:"question_id" db:"question_id"`
	IsCorrect          bool      `json:"is_correct" db:"is_correct"`                   // Most recent result
	ConsecutiveCorrect int       `json:"consecutive_correct" db:"consecutive_correct"` // Current mastery streak
	LastSeen           time.Time `json:"last_seen" db:"last_seen"`
}
