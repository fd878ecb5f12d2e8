package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dotcommander/missionctl/internal/models"
)

// tokenResetWindowMs is the rolling window after which the daily token
// counter resets (24h in milliseconds).
const tokenResetWindowMs = 24 * 60 * 60 * 1000

// defaultModelConfig is what an agent gets before any explicit
// configuration is stored.
func defaultModelConfig(sessionKey string, now int64) *models.ModelConfig {
	return &models.ModelConfig{
		AgentSessionKey: sessionKey,
		DefaultModel:    "sonnet",
		SmartModel:      "opus",
		UseSmartFor:     []string{"debate", "creative", "strategy"},
		TokensUsedToday: 0,
		LastReset:       now,
	}
}

// GetModelConfig returns the agent's model routing config, falling back
// to defaults when none is stored. The fallback is not persisted.
func GetModelConfig(db *sql.DB, sessionKey string, now int64) (*models.ModelConfig, error) {
	row := db.QueryRowContext(context.Background(), `
		SELECT agent_session_key, default_model, smart_model, use_smart_for,
		       max_token_budget_daily, tokens_used_today, last_reset
		FROM model_config WHERE agent_session_key = ?
	`, sessionKey)

	cfg, err := scanModelConfig(row)
	if errors.Is(err, sql.ErrNoRows) {
		return defaultModelConfig(sessionKey, now), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query model config: %w", err)
	}
	if now-cfg.LastReset > tokenResetWindowMs {
		cfg.TokensUsedToday = 0
		cfg.LastReset = now
	}
	return cfg, nil
}

// ModelConfigUpdate carries the optional fields of an upsert; nil fields
// keep their current (or default) values.
type ModelConfigUpdate struct {
	DefaultModel        *string
	SmartModel          *string
	UseSmartFor         []string
	MaxTokenBudgetDaily *int64
}

// UpdateModelConfig upserts the agent's model routing config.
func UpdateModelConfig(db *sql.DB, sessionKey string, update ModelConfigUpdate, now int64) (*models.ModelConfig, error) {
	var cfg *models.ModelConfig
	err := Transact(db, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(context.Background(), `
			SELECT agent_session_key, default_model, smart_model, use_smart_for,
			       max_token_budget_daily, tokens_used_today, last_reset
			FROM model_config WHERE agent_session_key = ?
		`, sessionKey)
		existing, err := scanModelConfig(row)
		if errors.Is(err, sql.ErrNoRows) {
			existing = defaultModelConfig(sessionKey, now)
		} else if err != nil {
			return fmt.Errorf("failed to query model config: %w", err)
		}

		if update.DefaultModel != nil {
			existing.DefaultModel = *update.DefaultModel
		}
		if update.SmartModel != nil {
			existing.SmartModel = *update.SmartModel
		}
		if update.UseSmartFor != nil {
			existing.UseSmartFor = update.UseSmartFor
		}
		if update.MaxTokenBudgetDaily != nil {
			existing.MaxTokenBudgetDaily = update.MaxTokenBudgetDaily
		}

		var budget any
		if existing.MaxTokenBudgetDaily != nil {
			budget = *existing.MaxTokenBudgetDaily
		}
		_, err = tx.ExecContext(context.Background(), `
			INSERT INTO model_config (agent_session_key, default_model, smart_model, use_smart_for,
			                          max_token_budget_daily, tokens_used_today, last_reset)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(agent_session_key) DO UPDATE SET
				default_model = excluded.default_model,
				smart_model = excluded.smart_model,
				use_smart_for = excluded.use_smart_for,
				max_token_budget_daily = excluded.max_token_budget_daily
		`, existing.AgentSessionKey, existing.DefaultModel, existing.SmartModel,
			encodeStringList(existing.UseSmartFor), budget, existing.TokensUsedToday, existing.LastReset)
		if err != nil {
			return fmt.Errorf("failed to upsert model config: %w", err)
		}
		cfg = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// TrackTokenUsage adds tokens to the agent's daily counter, resetting it
// first when the 24h window has elapsed. Creates the config row with
// defaults if missing.
func TrackTokenUsage(db *sql.DB, sessionKey string, tokens int64, now int64) (*models.ModelConfig, error) {
	var cfg *models.ModelConfig
	err := Transact(db, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(context.Background(), `
			SELECT agent_session_key, default_model, smart_model, use_smart_for,
			       max_token_budget_daily, tokens_used_today, last_reset
			FROM model_config WHERE agent_session_key = ?
		`, sessionKey)
		existing, err := scanModelConfig(row)
		if errors.Is(err, sql.ErrNoRows) {
			existing = defaultModelConfig(sessionKey, now)
		} else if err != nil {
			return fmt.Errorf("failed to query model config: %w", err)
		}

		if now-existing.LastReset > tokenResetWindowMs {
			existing.TokensUsedToday = 0
			existing.LastReset = now
		}
		existing.TokensUsedToday += tokens

		var budget any
		if existing.MaxTokenBudgetDaily != nil {
			budget = *existing.MaxTokenBudgetDaily
		}
		_, err = tx.ExecContext(context.Background(), `
			INSERT INTO model_config (agent_session_key, default_model, smart_model, use_smart_for,
			                          max_token_budget_daily, tokens_used_today, last_reset)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(agent_session_key) DO UPDATE SET
				tokens_used_today = excluded.tokens_used_today,
				last_reset = excluded.last_reset
		`, existing.AgentSessionKey, existing.DefaultModel, existing.SmartModel,
			encodeStringList(existing.UseSmartFor), budget, existing.TokensUsedToday, existing.LastReset)
		if err != nil {
			return fmt.Errorf("failed to track token usage: %w", err)
		}
		cfg = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func scanModelConfig(row rowScanner) (*models.ModelConfig, error) {
	var cfg models.ModelConfig
	var useSmartFor string
	var budget sql.NullInt64
	err := row.Scan(&cfg.AgentSessionKey, &cfg.DefaultModel, &cfg.SmartModel, &useSmartFor,
		&budget, &cfg.TokensUsedToday, &cfg.LastReset)
	if err != nil {
		return nil, err
	}
	list, err := decodeStringList(useSmartFor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode use_smart_for: %w", err)
	}
	cfg.UseSmartFor = list
	if budget.Valid {
		cfg.MaxTokenBudgetDaily = &budget.Int64
	}
	return &cfg, nil
}
