package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetModelConfigDefaults(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	cfg, err := GetModelConfig(db, "agent-a", nowTestMs())
	require.NoError(t, err)

	assert.Equal(t, "sonnet", cfg.DefaultModel)
	assert.Equal(t, "opus", cfg.SmartModel)
	assert.Equal(t, []string{"debate", "creative", "strategy"}, cfg.UseSmartFor)
	assert.Nil(t, cfg.MaxTokenBudgetDaily)
	assert.Zero(t, cfg.TokensUsedToday)
}

func TestTrackTokenUsageAccumulates(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	now := nowTestMs()
	_, err := TrackTokenUsage(db, "agent-a", 1000, now)
	require.NoError(t, err)
	cfg, err := TrackTokenUsage(db, "agent-a", 500, now+1)
	require.NoError(t, err)

	assert.Equal(t, int64(1500), cfg.TokensUsedToday)
}

func TestTrackTokenUsageResetsAfter24h(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	now := nowTestMs()
	_, err := TrackTokenUsage(db, "agent-a", 1000, now)
	require.NoError(t, err)

	later := now + tokenResetWindowMs + 1
	cfg, err := TrackTokenUsage(db, "agent-a", 200, later)
	require.NoError(t, err)

	assert.Equal(t, int64(200), cfg.TokensUsedToday)
	assert.Equal(t, later, cfg.LastReset)
}

func TestGetModelConfigRollingReset(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	now := nowTestMs()
	_, err := TrackTokenUsage(db, "agent-a", 1000, now)
	require.NoError(t, err)

	// Within the window the counter is reported as-is.
	cfg, err := GetModelConfig(db, "agent-a", now+1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), cfg.TokensUsedToday)

	// Past the window the counter reads zero.
	cfg, err = GetModelConfig(db, "agent-a", now+tokenResetWindowMs+1)
	require.NoError(t, err)
	assert.Zero(t, cfg.TokensUsedToday)
}

func TestUpdateModelConfigPartial(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	now := nowTestMs()
	smart := "opus-latest"
	budget := int64(500000)
	cfg, err := UpdateModelConfig(db, "agent-a", ModelConfigUpdate{
		SmartModel:          &smart,
		MaxTokenBudgetDaily: &budget,
	}, now)
	require.NoError(t, err)

	assert.Equal(t, "sonnet", cfg.DefaultModel)
	assert.Equal(t, "opus-latest", cfg.SmartModel)
	require.NotNil(t, cfg.MaxTokenBudgetDaily)
	assert.Equal(t, int64(500000), *cfg.MaxTokenBudgetDaily)
}
