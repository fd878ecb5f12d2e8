package app

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings represents configuration loaded from config.yaml.
// Field names match snake_case YAML keys.
type Settings struct {
	DBPath                   string `yaml:"db_path"`
	HeartbeatIntervalMinutes int    `yaml:"heartbeat_interval_minutes"`
	SearchPreviewLimit       int    `yaml:"search_preview_limit"`
	SearchDetailLimit        int    `yaml:"search_detail_limit"`
}

const (
	defaultHeartbeatIntervalMin = 60
	defaultSearchPreviewLimit   = 20
	defaultSearchDetailLimit    = 50
)

// EffectiveHeartbeatInterval returns the configured heartbeat cadence
// used by the agent status classifier when no per-agent cadence is known.
// Invalid or missing config values fall back to the default.
func EffectiveHeartbeatInterval() time.Duration {
	s, err := LoadSettings()
	if err != nil || s.HeartbeatIntervalMinutes <= 0 {
		return defaultHeartbeatIntervalMin * time.Minute
	}
	return time.Duration(s.HeartbeatIntervalMinutes) * time.Minute
}

// EffectiveSearchLimits returns validated (preview, detail) result caps
// for the global search aggregator.
func EffectiveSearchLimits() (preview, detail int) {
	preview, detail = defaultSearchPreviewLimit, defaultSearchDetailLimit
	s, err := LoadSettings()
	if err != nil {
		return preview, detail
	}
	if s.SearchPreviewLimit > 0 {
		preview = s.SearchPreviewLimit
	}
	if s.SearchDetailLimit > 0 {
		detail = s.SearchDetailLimit
	}
	return preview, detail
}

// settingsOnce, settings, settingsErr implement the sync.Once lazy-load singleton for config.
// dbPathOverrideMu and dbPathOverride implement a mutex-protected process-wide override for CLI --db-path.
//
//nolint:gochecknoglobals // sync.Once singleton + RWMutex override are intentional process-wide state
var (
	settingsOnce sync.Once
	settings     Settings
	settingsErr  error

	dbPathOverrideMu sync.RWMutex
	dbPathOverride   string
)

// SetDBPathOverride sets a process-wide database path override.
// Intended for CLI flag support (e.g. --db-path).
func SetDBPathOverride(path string) {
	dbPathOverrideMu.Lock()
	dbPathOverride = path
	dbPathOverrideMu.Unlock()
}

func getDBPathOverride() string {
	dbPathOverrideMu.RLock()
	v := dbPathOverride
	dbPathOverrideMu.RUnlock()
	return v
}

// LoadSettings loads configuration once using the documented lookup order.
// Lookup order (first found wins):
// 1) ~/.config/missionctl/config.yaml
// 2) /etc/missionctl/config.yaml
// 3) ./config.yaml (lowest priority; allows repo-local overrides if desired)
// Environment variables are handled separately.
func LoadSettings() (Settings, error) {
	settingsOnce.Do(func() {
		settings = Settings{}

		dir, err := ConfigDir()
		if err != nil {
			settingsErr = err
			return
		}
		if s, err := loadSettingsFile(filepath.Join(dir, "config.yaml")); err == nil {
			settings = s
			return
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			settingsErr = err
			return
		}

		if s, err := loadSettingsFile(filepath.Join(string(os.PathSeparator), "etc", "missionctl", "config.yaml")); err == nil {
			settings = s
			return
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			settingsErr = err
			return
		}

		if s, err := loadSettingsFile("config.yaml"); err == nil {
			settings = s
			return
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			settingsErr = err
			return
		}
	})

	return settings, settingsErr
}

func loadSettingsFile(path string) (Settings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}
