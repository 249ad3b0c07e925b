package database

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/quizbot/pkg/models"
)

// setupTestDB points the package-global DB at an in-memory sqlite
// database with the real schema applied.
func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)

	prev := DB
	DB = db
	require.NoError(t, initializeSchema())

	t.Cleanup(func() {
		db.Close()
		DB = prev
	})
}

func seedQuestion(t *testing.T, id, category string) {
	t.Helper()
	q := &models.Question{
		ID:            id,
		Category:      category,
		Text:          "?",
		Options:       map[string]string{"A": "tak", "B": "nie"},
		CorrectOption: "A",
	}
	require.NoError(t, NewQuestionRepository().Upsert(q))
}

func seedProgress(t *testing.T, userID, questionID string, streak int, lastSeen time.Time) {
	t.Helper()
	_, err := DB.Exec(`
		INSERT INTO user_progress (user_id, question_id, is_correct, consecutive_correct, last_seen)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, questionID, streak > 0, streak, lastSeen)
	require.NoError(t, err)
}

func TestUpsertAttemptStreakTransitions(t *testing.T) {
	setupTestDB(t)
	seedQuestion(t, "q1", "Historia")
	repo := NewProgressRepository()

	streak, err := repo.UpsertAttempt("u1", "q1", true)
	require.NoError(t, err)
	assert.Equal(t, 1, streak)

	streak, err = repo.UpsertAttempt("u1", "q1", true)
	require.NoError(t, err)
	assert.Equal(t, 2, streak)

	streak, err = repo.UpsertAttempt("u1", "q1", false)
	require.NoError(t, err)
	assert.Equal(t, 0, streak, "a wrong answer resets the streak")

	streak, err = repo.UpsertAttempt("u1", "q1", true)
	require.NoError(t, err)
	assert.Equal(t, 1, streak)

	record, err := repo.GetByUserAndQuestion("u1", "q1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, 1, record.ConsecutiveCorrect)
	assert.True(t, record.IsCorrect)
	assert.False(t, record.LastSeen.IsZero())
}

func TestGetByUserAndQuestionUnseenReturnsNil(t *testing.T) {
	setupTestDB(t)
	repo := NewProgressRepository()

	record, err := repo.GetByUserAndQuestion("u1", "never-attempted")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestGetCandidateRowsFiltersDormant(t *testing.T) {
	setupTestDB(t)
	repo := NewProgressRepository()
	now := time.Now().UTC()

	seedQuestion(t, "unseen", "Historia")
	seedQuestion(t, "learning", "Historia")
	seedQuestion(t, "mastered-fresh", "Historia")
	seedQuestion(t, "mastered-decayed", "Historia")

	seedProgress(t, "u1", "learning", 1, now.Add(-time.Hour))
	seedProgress(t, "u1", "mastered-fresh", 3, now.Add(-time.Hour))
	seedProgress(t, "u1", "mastered-decayed", 3, now.AddDate(0, 0, -5))

	candidates, err := repo.GetCandidateRows("u1", 3, 3*24*time.Hour)
	require.NoError(t, err)

	byID := map[string]models.Candidate{}
	for _, c := range candidates {
		byID[c.Question.ID] = c
	}

	require.Len(t, byID, 3, "mastered questions inside the decay window stay out")
	assert.NotContains(t, byID, "mastered-fresh")

	assert.False(t, byID["unseen"].Seen)
	assert.Equal(t, 0, byID["unseen"].Streak)
	assert.True(t, byID["learning"].Seen)
	assert.Equal(t, 1, byID["learning"].Streak)
	assert.Equal(t, 3, byID["mastered-decayed"].Streak)
}

func TestGetCandidateRowsAnotherUsersProgressIgnored(t *testing.T) {
	setupTestDB(t)
	repo := NewProgressRepository()

	seedQuestion(t, "q1", "Historia")
	seedProgress(t, "u2", "q1", 3, time.Now().UTC())

	candidates, err := repo.GetCandidateRows("u1", 3, 3*24*time.Hour)
	require.NoError(t, err)

	require.Len(t, candidates, 1)
	assert.False(t, candidates[0].Seen, "another user's mastery must not hide the question")
}

func TestGetCategoryCandidatesOrdersWeakestFirst(t *testing.T) {
	setupTestDB(t)
	repo := NewProgressRepository()
	now := time.Now().UTC()

	seedQuestion(t, "strong", "Historia")
	seedQuestion(t, "weak", "Historia")
	seedQuestion(t, "other", "Geografia")
	seedProgress(t, "u1", "strong", 4, now)
	seedProgress(t, "u1", "weak", 1, now)

	candidates, err := repo.GetCategoryCandidates("u1", "Historia")
	require.NoError(t, err)

	require.Len(t, candidates, 2)
	assert.Equal(t, "weak", candidates[0].Question.ID)
	assert.Equal(t, "strong", candidates[1].Question.ID)
}

func TestGetOutcomeRecordsRestrictedToIDs(t *testing.T) {
	setupTestDB(t)
	repo := NewProgressRepository()
	now := time.Now().UTC()

	seedProgress(t, "u1", "q1", 1, now)
	seedProgress(t, "u1", "q2", 2, now)
	seedProgress(t, "u1", "q3", 3, now)

	all, err := repo.GetOutcomeRecords("u1")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	subset, err := repo.GetOutcomeRecords("u1", "q1", "q3")
	require.NoError(t, err)
	require.Len(t, subset, 2)
	for _, r := range subset {
		assert.NotEqual(t, "q2", r.QuestionID)
	}
}

func TestDueReviewCount(t *testing.T) {
	setupTestDB(t)
	repo := NewProgressRepository()
	now := time.Now().UTC()

	seedProgress(t, "u1", "learning", 1, now)
	seedProgress(t, "u1", "mastered-fresh", 3, now)
	seedProgress(t, "u1", "mastered-decayed", 3, now.AddDate(0, 0, -5))

	count, err := repo.DueReviewCount("u1", 3, now.AddDate(0, 0, -3))
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
