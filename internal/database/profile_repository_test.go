package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileGetOrCreateDefaults(t *testing.T) {
	setupTestDB(t)
	repo := NewProfileRepository()

	profile, err := repo.GetOrCreate("u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", profile.UserID)
	assert.Equal(t, 3, profile.DailyGoal)
	assert.Equal(t, "pl", profile.Language)
	assert.False(t, profile.Onboarded)

	// Second call reads the stored row instead of inserting again
	again, err := repo.GetOrCreate("u1")
	require.NoError(t, err)
	assert.Equal(t, profile.UserID, again.UserID)

	ids, err := repo.GetAllUserIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, ids)
}

func TestProfileSaveRoundTrip(t *testing.T) {
	setupTestDB(t)
	repo := NewProfileRepository()

	profile, err := repo.GetOrCreate("u1")
	require.NoError(t, err)

	profile.StreakDays = 4
	profile.DailyProgress = 2
	profile.Onboarded = true
	profile.Language = "en"
	profile.Metadata["theme"] = "dark"
	require.NoError(t, repo.Save(profile))

	got, err := repo.GetOrCreate("u1")
	require.NoError(t, err)
	assert.Equal(t, 4, got.StreakDays)
	assert.Equal(t, 2, got.DailyProgress)
	assert.True(t, got.Onboarded)
	assert.Equal(t, "en", got.Language)
	assert.Equal(t, "dark", got.Metadata["theme"])
}

func TestProfileSaveUnknownUserFails(t *testing.T) {
	setupTestDB(t)
	repo := NewProfileRepository()

	profile, err := repo.GetOrCreate("u1")
	require.NoError(t, err)

	profile.UserID = "nobody"
	assert.Error(t, repo.Save(profile))
}
