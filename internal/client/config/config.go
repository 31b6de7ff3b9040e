package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the study planner terminal client.
//
// FocusDuration is the default length of a focus session; FocusTick is how
// often its countdown advances. FocusAuthorized decides whether the local
// do-not-disturb controller grants access.
type Config struct {
	AuthBaseURL     string
	UserBaseURL     string
	DatabasePath    string
	DeviceKeyPath   string
	LogLevel        string
	LogBackend      string
	FocusDuration   time.Duration
	FocusTick       time.Duration
	FocusAuthorized bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.AuthBaseURL = "https://api.smartstudyplanner.com"
	c.UserBaseURL = "https://api.smartstudyplanner.com/v1"
	c.DatabasePath = "studyplanner.db"
	c.DeviceKeyPath = "studyplanner.key"
	c.LogLevel = "info"
	c.LogBackend = "slog"
	c.FocusDuration = time.Hour
	c.FocusTick = time.Second
	c.FocusAuthorized = true
}

// LoadConfig builds a Config from defaults, then the .env file and
// STUDYPLANNER_* environment variables, then the JSON file named by -c,
// then flags. Later sources take precedence.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, ".env", os.LookupEnv); err != nil {
		return nil, err
	}
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
