package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/quizbot/pkg/models"
)

func TestQuestionUpsertRoundTrip(t *testing.T) {
	setupTestDB(t)
	repo := NewQuestionRepository()

	q := &models.Question{
		ID:            "q1",
		Category:      "Historia",
		Text:          "Rok bitwy pod Grunwaldem?",
		Options:       map[string]string{"A": "1410", "B": "1492"},
		CorrectOption: "A",
		Explanation:   "1410",
	}
	require.NoError(t, repo.Upsert(q))

	got, err := repo.GetByID("q1")
	require.NoError(t, err)
	assert.Equal(t, q.Text, got.Text)
	assert.Equal(t, q.Options, got.Options)
	assert.Equal(t, "A", got.CorrectOption)

	// Upsert on the same ID replaces, never duplicates
	q.Category = "Geografia"
	require.NoError(t, repo.Upsert(q))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCategoriesListsDistinctSorted(t *testing.T) {
	setupTestDB(t)
	repo := NewQuestionRepository()

	seedQuestion(t, "q1", "Historia")
	seedQuestion(t, "q2", "Geografia")
	seedQuestion(t, "q3", "Historia")

	categories, err := repo.Categories()
	require.NoError(t, err)
	assert.Equal(t, []string{"Geografia", "Historia"}, categories)
}

func TestGetAllFiltersByCategory(t *testing.T) {
	setupTestDB(t)
	repo := NewQuestionRepository()

	seedQuestion(t, "q1", "Historia")
	seedQuestion(t, "q2", "Geografia")

	questions, err := repo.GetAll("Historia")
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "q1", questions[0].ID)
}
