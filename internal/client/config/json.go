package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/studyplanner/internal/flagx"
	"github.com/dmitrijs2005/studyplanner/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// use timex.Duration so they may be strings like "25m" or nanoseconds.
type JsonConfig struct {
	AuthBaseURL     string         `json:"auth_base_url"`
	UserBaseURL     string         `json:"user_base_url"`
	DatabasePath    string         `json:"database_path"`
	DeviceKeyPath   string         `json:"device_key_path"`
	LogLevel        string         `json:"log_level"`
	LogBackend      string         `json:"log_backend"`
	FocusDuration   timex.Duration `json:"focus_duration"`
	FocusTick       timex.Duration `json:"focus_tick"`
	FocusAuthorized *bool          `json:"focus_authorized"`
}

// parseJSON overlays cfg with the JSON file named by -c/-config in args.
// Fields absent from the file keep their current values.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.AuthBaseURL, jc.AuthBaseURL)
	setString(&cfg.UserBaseURL, jc.UserBaseURL)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.DeviceKeyPath, jc.DeviceKeyPath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogBackend, jc.LogBackend)

	if jc.FocusDuration.Duration > 0 {
		cfg.FocusDuration = jc.FocusDuration.Duration
	}
	if jc.FocusTick.Duration > 0 {
		cfg.FocusTick = jc.FocusTick.Duration
	}
	if jc.FocusAuthorized != nil {
		cfg.FocusAuthorized = *jc.FocusAuthorized
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
