package mastery

import (
	"fmt"
	"log"
)

// State describes where a (user, question) pair sits in the mastery
// progression.
type State int

const (
	// Unseen means the question was never attempted
	Unseen State = iota
	// Learning means the streak is below the mastery threshold
	Learning
	// Mastered means the streak reached the threshold
	Mastered
)

// String returns a human-readable state name
func (s State) String() string {
	switch s {
	case Unseen:
		return "unseen"
	case Learning:
		return "learning"
	case Mastered:
		return "mastered"
	default:
		return "unknown"
	}
}

// OutcomeStore persists answer outcomes. UpsertAttempt must apply the
// streak transition atomically per (user, question) pair and return the
// new streak; database.ProgressRepository satisfies this with a single
// conditional upsert.
type OutcomeStore interface {
	UpsertAttempt(userID, questionID string, isCorrect bool) (int, error)
}

// Tracker drives the per-question streak state machine: a correct answer
// increments the streak by one, an incorrect answer resets it to zero
// regardless of prior state.
type Tracker struct {
	store            OutcomeStore
	MasteryThreshold int
}

// NewTracker creates a tracker over the given outcome store
func NewTracker(store OutcomeStore, masteryThreshold int) *Tracker {
	return &Tracker{
		store:            store,
		MasteryThreshold: masteryThreshold,
	}
}

// RecordAttempt persists one answer and returns the new streak. Every
// call is a real event: two correct answers in a row advance the streak
// by two. Outcome history is never batched, so a storage failure here
// surfaces immediately to the caller.
func (t *Tracker) RecordAttempt(userID, questionID string, wasCorrect bool) (int, error) {
	newStreak, err := t.store.UpsertAttempt(userID, questionID, wasCorrect)
	if err != nil {
		return 0, fmt.Errorf("failed to record attempt for question %s: %v", questionID, err)
	}

	if newStreak < 0 {
		// A negative streak can only come from bad data in storage;
		// clamp instead of failing the session
		log.Printf("Warning: negative streak %d for user %s question %s, clamping to 0", newStreak, userID, questionID)
		newStreak = 0
	}

	return newStreak, nil
}

// StateFor maps a streak value onto the mastery state machine
func (t *Tracker) StateFor(streak int, seen bool) State {
	if !seen {
		return Unseen
	}
	if streak >= t.MasteryThreshold {
		return Mastered
	}
	return Learning
}
