package database

import (
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/quizbot/pkg/models"
)

// QuestionRepository handles database operations for the question catalog
type QuestionRepository struct{}

// NewQuestionRepository creates a new repository instance
func NewQuestionRepository() *QuestionRepository {
	return &QuestionRepository{}
}

// GetByID returns a question by ID
func (r *QuestionRepository) GetByID(id string) (*models.Question, error) {
	var raw string
	err := DB.Get(&raw, "SELECT json_data FROM questions WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get question by ID: %v", err)
	}
	return unmarshalQuestion(raw)
}

// GetByIDs returns the questions matching the given IDs
func (r *QuestionRepository) GetByIDs(ids []string) ([]models.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In("SELECT json_data FROM questions WHERE id IN (?)", ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build questions query: %v", err)
	}
	query = DB.Rebind(query)

	var rows []string
	if err := DB.Select(&rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get questions by IDs: %v", err)
	}

	return unmarshalQuestions(rows)
}

// GetAll returns the full catalog, or one category when category is non-empty
func (r *QuestionRepository) GetAll(category string) ([]models.Question, error) {
	var rows []string
	var err error

	if category == "" {
		err = DB.Select(&rows, "SELECT json_data FROM questions ORDER BY id")
	} else {
		err = DB.Select(&rows, "SELECT json_data FROM questions WHERE category = $1 ORDER BY id", category)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %v", err)
	}

	return unmarshalQuestions(rows)
}

// Count returns the number of questions in the catalog
func (r *QuestionRepository) Count() (int, error) {
	var count int
	err := DB.Get(&count, "SELECT COUNT(*) FROM questions")
	if err != nil {
		return 0, fmt.Errorf("failed to count questions: %v", err)
	}
	return count, nil
}

// Categories returns the distinct categories present in the catalog
func (r *QuestionRepository) Categories() ([]string, error) {
	var categories []string
	err := DB.Select(&categories, "SELECT DISTINCT category FROM questions ORDER BY category")
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %v", err)
	}
	return categories, nil
}

// Upsert inserts or replaces a question. Used only by the content-seeding
// path; the core never mutates the catalog.
func (r *QuestionRepository) Upsert(q *models.Question) error {
	payload, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("failed to marshal question: %v", err)
	}

	query := `
		INSERT INTO questions (id, category, json_data)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			category = excluded.category,
			json_data = excluded.json_data
	`
	if _, err := DB.Exec(query, q.ID, q.Category, string(payload)); err != nil {
		return fmt.Errorf("failed to upsert question: %v", err)
	}
	return nil
}

func unmarshalQuestion(raw string) (*models.Question, error) {
	var q models.Question
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		return nil, fmt.Errorf("failed to parse question payload: %v", err)
	}
	return &q, nil
}

func unmarshalQuestions(rows []string) ([]models.Question, error) {
	questions := make([]models.Question, 0, len(rows))
	for _, raw := range rows {
		q, err := unmarshalQuestion(raw)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, nil
}
