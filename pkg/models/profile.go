package models

import "time"

// UserProfile stores per-user gamification state and preferences
type UserProfile struct {
	UserID         string            `json:"user_id" db:"user_id"`
	StreakDays     int               `json:"streak_days" db:"streak_days"`
	LastLogin      time.Time         `json:"last_login" db:"last_login"`
	DailyGoal      int               `json:"daily_goal" db:"daily_goal"`
	DailyProgress  int               `json:"daily_progress" db:"daily_progress"`
	LastDailyReset time.Time         `json:"last_daily_reset" db:"last_daily_reset"`
	Onboarded      bool              `json:"onboarded" db:"onboarded"`
	Language       string            `json:"language" db:"language"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// IsBonusMode reports whether the user already hit today's goal
func (p *UserProfile) IsBonusMode() bool {
	return p.DailyProgress >= p.DailyGoal
}
