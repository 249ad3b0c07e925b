package mastery

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOutcomeStore mimics the conditional upsert: a correct answer
// increments the stored streak, an incorrect one resets it to zero.
type fakeOutcomeStore struct {
	streaks map[string]int
	err     error
	calls   int
}

func newFakeOutcomeStore() *fakeOutcomeStore {
	return &fakeOutcomeStore{streaks: make(map[string]int)}
}

func (f *fakeOutcomeStore) UpsertAttempt(userID, questionID string, isCorrect bool) (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	key := userID + "/" + questionID
	if isCorrect {
		f.streaks[key]++
	} else {
		f.streaks[key] = 0
	}
	return f.streaks[key], nil
}

func TestRecordAttemptIncrementsOnCorrect(t *testing.T) {
	store := newFakeOutcomeStore()
	tracker := NewTracker(store, 3)

	streak, err := tracker.RecordAttempt("u1", "q1", true)
	require.NoError(t, err)
	assert.Equal(t, 1, streak)
}

func TestRecordAttemptIsNotIdempotent(t *testing.T) {
	store := newFakeOutcomeStore()
	tracker := NewTracker(store, 3)

	first, err := tracker.RecordAttempt("u1", "q1", true)
	require.NoError(t, err)
	second, err := tracker.RecordAttempt("u1", "q1", true)
	require.NoError(t, err)

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second, "each call is a real event: two correct answers advance the streak by two")
}

func TestRecordAttemptResetsOnIncorrect(t *testing.T) {
	store := newFakeOutcomeStore()
	tracker := NewTracker(store, 3)

	for _, prior := range []int{1, 5, 100} {
		key := "u1/q1"
		store.streaks[key] = prior

		streak, err := tracker.RecordAttempt("u1", "q1", false)
		require.NoError(t, err)
		assert.Equal(t, 0, streak, "incorrect answer must reset a streak of %d", prior)
	}
}

func TestRecordAttemptKeepsCountingPastThreshold(t *testing.T) {
	store := newFakeOutcomeStore()
	tracker := NewTracker(store, 3)

	var streak int
	var err error
	for i := 0; i < 5; i++ {
		streak, err = tracker.RecordAttempt("u1", "q1", true)
		require.NoError(t, err)
	}
	assert.Equal(t, 5, streak, "mastered questions have no streak cap")
}

func TestRecordAttemptPropagatesStoreError(t *testing.T) {
	store := newFakeOutcomeStore()
	store.err = errors.New("connection reset")
	tracker := NewTracker(store, 3)

	_, err := tracker.RecordAttempt("u1", "q1", true)
	require.Error(t, err, "outcome writes must never fail silently")
	assert.Contains(t, err.Error(), "q1")
}

type negativeStreakStore struct{}

func (negativeStreakStore) UpsertAttempt(userID, questionID string, isCorrect bool) (int, error) {
	return -3, nil
}

func TestRecordAttemptClampsNegativeStreak(t *testing.T) {
	tracker := NewTracker(negativeStreakStore{}, 3)

	streak, err := tracker.RecordAttempt("u1", "q1", true)
	require.NoError(t, err)
	assert.Equal(t, 0, streak, "bad stored data is clamped, not fatal")
}

func TestStateFor(t *testing.T) {
	tracker := NewTracker(newFakeOutcomeStore(), 3)

	tests := []struct {
		name   string
		streak int
		seen   bool
		want   State
	}{
		{"never attempted", 0, false, Unseen},
		{"zero streak", 0, true, Learning},
		{"below threshold", 2, true, Learning},
		{"at threshold", 3, true, Mastered},
		{"above threshold", 10, true, Mastered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tracker.StateFor(tt.streak, tt.seen))
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unseen", Unseen.String())
	assert.Equal(t, "learning", Learning.String())
	assert.Equal(t, "mastered", Mastered.String())
}
