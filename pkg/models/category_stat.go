package models

// CategoryStat summarizes a user's mastery within one category
type CategoryStat struct {
	Category string `json:"category" db:"category"`
	Total    int    `json:"total" db:"total"`
	Mastered int    `json:"mastered" db:"mastered"`
}

// MasteryPercentage returns the mastered share, 0 for an empty category
func (s *CategoryStat) MasteryPercentage() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Mastered) / float64(s.Total)
}
