package models

// Question represents a single quiz question from the catalog
type Question struct {
	ID            string                 `json:"id" db:"id"`
	Category      string                 `json:"category" db:"category"`
	Text          string                 `json:"text"`
	Options       map[string]string      `json:"options"`        // Option key (A-D) to option text
	CorrectOption string                 `json:"correct_option"` // Key of the correct option
	Explanation   string                 `json:"explanation,omitempty"`
	Hint          string                 `json:"hint,omitempty"`
	ImagePath     string                 `json:"image_path,omitempty"`
	Extra         map[string]interface{} `json:"extra,omitempty"` // Presentation fields the core doesn't interpret
}

// IsCorrect reports whether the selected option key matches the answer key
func (q *Question) IsCorrect(selected string) bool {
	return selected != "" && selected == q.CorrectOption
}
