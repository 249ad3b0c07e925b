package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/example/quizbot/pkg/models"
)

// ProfileRepository handles database operations for user profiles
type ProfileRepository struct{}

// NewProfileRepository creates a new repository instance
func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{}
}

// GetOrCreate returns the profile for a user, creating a default one on
// first contact.
func (r *ProfileRepository) GetOrCreate(userID string) (*models.UserProfile, error) {
	profile, err := r.get(userID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}

	dailyGoal := 3
	if v := os.Getenv("DAILY_GOAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			dailyGoal = n
		}
	}

	today := time.Now()
	profile = &models.UserProfile{
		UserID:         userID,
		StreakDays:     0,
		LastLogin:      today,
		DailyGoal:      dailyGoal,
		DailyProgress:  0,
		LastDailyReset: today,
		Language:       "pl",
		Metadata:       map[string]string{},
	}

	query := `
		INSERT INTO user_profiles (
			user_id, streak_days, last_login, daily_goal,
			daily_progress, last_daily_reset, onboarded, language, metadata
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = DB.Exec(
		query,
		profile.UserID,
		profile.StreakDays,
		profile.LastLogin,
		profile.DailyGoal,
		profile.DailyProgress,
		profile.LastDailyReset,
		profile.Onboarded,
		profile.Language,
		"{}",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %v", err)
	}
	return profile, nil
}

// Save writes the whole profile back to storage
func (r *ProfileRepository) Save(profile *models.UserProfile) error {
	metadata, err := json.Marshal(profile.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal profile metadata: %v", err)
	}

	query := `
		UPDATE user_profiles SET
			streak_days = $1,
			last_login = $2,
			daily_goal = $3,
			daily_progress = $4,
			last_daily_reset = $5,
			onboarded = $6,
			language = $7,
			metadata = $8
		WHERE user_id = $9
	`
	result, err := DB.Exec(
		query,
		profile.StreakDays,
		profile.LastLogin,
		profile.DailyGoal,
		profile.DailyProgress,
		profile.LastDailyReset,
		profile.Onboarded,
		profile.Language,
		string(metadata),
		profile.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %v", err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("failed to save profile: no row for user %s", profile.UserID)
	}
	return nil
}

// GetAllUserIDs returns every user with a profile. Used by the reminder sweep.
func (r *ProfileRepository) GetAllUserIDs() ([]string, error) {
	var ids []string
	if err := DB.Select(&ids, "SELECT user_id FROM user_profiles ORDER BY user_id"); err != nil {
		return nil, fmt.Errorf("failed to get user IDs: %v", err)
	}
	return ids, nil
}

func (r *ProfileRepository) get(userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	var lastLogin, lastReset sql.NullTime
	var metadata sql.NullString

	err := DB.QueryRow(`
		SELECT user_id, streak_days, last_login, daily_goal,
		       daily_progress, last_daily_reset, onboarded, language, metadata
		FROM user_profiles
		WHERE user_id = $1
	`, userID).Scan(
		&profile.UserID,
		&profile.StreakDays,
		&lastLogin,
		&profile.DailyGoal,
		&profile.DailyProgress,
		&lastReset,
		&profile.Onboarded,
		&profile.Language,
		&metadata,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %v", err)
	}

	today := time.Now()
	profile.LastLogin = today
	if lastLogin.Valid {
		profile.LastLogin = lastLogin.Time
	}
	profile.LastDailyReset = today
	if lastReset.Valid {
		profile.LastDailyReset = lastReset.Time
	}

	profile.Metadata = map[string]string{}
	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &profile.Metadata); err != nil {
			return nil, fmt.Errorf("failed to parse profile metadata: %v", err)
		}
	}

	return &profile, nil
}
