package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/quizbot/pkg/models"
)

// ProgressRepository handles database operations for per-user answer history
type ProgressRepository struct{}

// NewProgressRepository creates a new repository instance
func NewProgressRepository() *ProgressRepository {
	return &ProgressRepository{}
}

// GetByUserAndQuestion returns the outcome record for one (user, question)
// pair, or nil if the question was never attempted.
func (r *ProgressRepository) GetByUserAndQuestion(userID, questionID string) (*models.OutcomeRecord, error) {
	var record models.OutcomeRecord
	err := DB.Get(&record, `
		SELECT user_id, question_id, is_correct, consecutive_correct, last_seen
		FROM user_progress
		WHERE user_id = $1 AND question_id = $2
	`, userID, questionID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get outcome record: %v", err)
	}
	return &record, nil
}

// GetOutcomeRecords returns the user's outcome records, restricted to the
// given question IDs when any are passed.
func (r *ProgressRepository) GetOutcomeRecords(userID string, questionIDs ...string) ([]models.OutcomeRecord, error) {
	var records []models.OutcomeRecord
	var err error

	if len(questionIDs) == 0 {
		err = DB.Select(&records, `
			SELECT user_id, question_id, is_correct, consecutive_correct, last_seen
			FROM user_progress
			WHERE user_id = $1
		`, userID)
	} else {
		var query string
		var args []interface{}
		query, args, err = sqlx.In(`
			SELECT user_id, question_id, is_correct, consecutive_correct, last_seen
			FROM user_progress
			WHERE user_id = ? AND question_id IN (?)
		`, userID, questionIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to build outcome query: %v", err)
		}
		err = DB.Select(&records, DB.Rebind(query), args...)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get outcome records: %v", err)
	}
	return records, nil
}

// UpsertAttempt records an answer and returns the new consecutive-correct
// streak. The whole read-modify-write happens inside a single upsert
// statement, so two concurrent attempts on the same (user, question) pair
// cannot both read the pre-update streak.
func (r *ProgressRepository) UpsertAttempt(userID, questionID string, isCorrect bool) (int, error) {
	initialStreak := 0
	if isCorrect {
		initialStreak = 1
	}

	query := `
		INSERT INTO user_progress (user_id, question_id, is_correct, consecutive_correct, last_seen)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, question_id) DO UPDATE SET
			consecutive_correct = CASE
				WHEN excluded.is_correct THEN user_progress.consecutive_correct + 1
				ELSE 0
			END,
			is_correct = excluded.is_correct,
			last_seen = CURRENT_TIMESTAMP
	`

	var newStreak int
	if DB.DriverName() == "postgres" {
		err := DB.QueryRow(query+" RETURNING consecutive_correct",
			userID, questionID, isCorrect, initialStreak).Scan(&newStreak)
		if err != nil {
			return 0, fmt.Errorf("failed to record attempt: %v", err)
		}
		return newStreak, nil
	}

	// SQLite: upsert first, then read the streak back. The upsert itself is
	// still a single atomic statement.
	_, err := DB.Exec(query, userID, questionID, isCorrect, initialStreak)
	if err != nil {
		return 0, fmt.Errorf("failed to record attempt: %v", err)
	}

	err = DB.QueryRow(
		"SELECT consecutive_correct FROM user_progress WHERE user_id = $1 AND question_id = $2",
		userID, questionID,
	).Scan(&newStreak)
	if err != nil {
		return 0, fmt.Errorf("failed to read new streak: %v", err)
	}
	return newStreak, nil
}

// GetCandidateRows returns every question still eligible for the user:
// unseen questions, questions below the mastery threshold, and mastered
// questions whose last attempt is older than the decay window. Mastered
// questions inside the window are filtered out here, server-side.
func (r *ProgressRepository) GetCandidateRows(userID string, masteryThreshold int, decayWindow time.Duration) ([]models.Candidate, error) {
	// last_seen is written as CURRENT_TIMESTAMP, which both backends store
	// in UTC, so the cutoff has to be UTC too.
	cutoff := time.Now().UTC().Add(-decayWindow)

	query := `
		SELECT q.json_data,
		       COALESCE(up.consecutive_correct, 0) AS streak,
		       up.question_id IS NOT NULL          AS seen,
		       up.last_seen
		FROM questions q
		LEFT JOIN user_progress up
			ON q.id = up.question_id AND up.user_id = $1
		WHERE up.question_id IS NULL
		   OR up.consecutive_correct < $2
		   OR up.last_seen <= $3
	`

	rows, err := DB.Query(query, userID, masteryThreshold, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate rows: %v", err)
	}
	defer rows.Close()

	return scanCandidates(rows)
}

// GetCategoryCandidates returns every question in a category with the
// user's streak for it, weakest first with random tie-break.
func (r *ProgressRepository) GetCategoryCandidates(userID, category string) ([]models.Candidate, error) {
	query := `
		SELECT q.json_data,
		       COALESCE(up.consecutive_correct, 0) AS streak,
		       up.question_id IS NOT NULL          AS seen,
		       up.last_seen
		FROM questions q
		LEFT JOIN user_progress up
			ON q.id = up.question_id AND up.user_id = $1
		WHERE q.category = $2
		ORDER BY COALESCE(up.consecutive_correct, 0) ASC, RANDOM()
	`

	rows, err := DB.Query(query, userID, category)
	if err != nil {
		return nil, fmt.Errorf("failed to get category candidates: %v", err)
	}
	defer rows.Close()

	return scanCandidates(rows)
}

// GetCategoryStats returns per-category totals and mastered counts for a user
func (r *ProgressRepository) GetCategoryStats(userID string, masteryThreshold int) ([]models.CategoryStat, error) {
	query := `
		SELECT q.category,
		       COUNT(*) AS total,
		       COALESCE(SUM(CASE WHEN up.consecutive_correct >= $2 THEN 1 ELSE 0 END), 0) AS mastered
		FROM questions q
		LEFT JOIN user_progress up
			ON q.id = up.question_id AND up.user_id = $1
		GROUP BY q.category
		ORDER BY q.category
	`

	var stats []models.CategoryStat
	if err := DB.Select(&stats, query, userID, masteryThreshold); err != nil {
		return nil, fmt.Errorf("failed to get category stats: %v", err)
	}
	return stats, nil
}

// DueReviewCount counts questions the user has started but not mastered,
// plus mastered questions that decayed past the cutoff. Used by the
// reminder sweep.
func (r *ProgressRepository) DueReviewCount(userID string, masteryThreshold int, cutoff time.Time) (int, error) {
	var count int
	err := DB.Get(&count, `
		SELECT COUNT(*) FROM user_progress
		WHERE user_id = $1
		  AND (consecutive_correct < $2 OR last_seen <= $3)
	`, userID, masteryThreshold, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to count due reviews: %v", err)
	}
	return count, nil
}

func scanCandidates(rows *sql.Rows) ([]models.Candidate, error) {
	var candidates []models.Candidate
	for rows.Next() {
		var raw string
		var streak int
		var seen bool
		var lastSeen sql.NullTime

		if err := rows.Scan(&raw, &streak, &seen, &lastSeen); err != nil {
			return nil, fmt.Errorf("failed to scan candidate row: %v", err)
		}

		var q models.Question
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			return nil, fmt.Errorf("failed to parse question payload: %v", err)
		}

		c := models.Candidate{Question: q, Streak: streak, Seen: seen}
		if lastSeen.Valid {
			c.LastSeen = lastSeen.Time
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read candidate rows: %v", err)
	}
	return candidates, nil
}
