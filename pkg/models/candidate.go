package models

import "time"

// Candidate wraps a question eligible for selection together with the
// user's history for it. Produced by the candidate query, consumed by
// the classifier and scheduler; never persisted.
type Candidate struct {
	Question Question
	Streak   int
	Seen     bool
	LastSeen time.Time // Zero when the question was never attempted
}
