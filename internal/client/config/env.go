package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvAuthURL         = "STUDYPLANNER_AUTH_URL"
	EnvUserURL         = "STUDYPLANNER_USER_URL"
	EnvDatabase        = "STUDYPLANNER_DB"
	EnvDeviceKey       = "STUDYPLANNER_KEY_FILE"
	EnvLogLevel        = "STUDYPLANNER_LOG_LEVEL"
	EnvLogBackend      = "STUDYPLANNER_LOG_BACKEND"
	EnvFocusDuration   = "STUDYPLANNER_FOCUS_DURATION"
	EnvFocusTick       = "STUDYPLANNER_FOCUS_TICK"
	EnvFocusAuthorized = "STUDYPLANNER_FOCUS_AUTHORIZED"
)

type lookupFunc func(key string) (string, bool)

// parseEnv overlays cfg with variables from the process environment and,
// for variables not set there, from the dotenv file at envFile. A missing
// file is not an error.
func parseEnv(cfg *Config, envFile string, lookup lookupFunc) error {
	fileVars, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read %s: %w", envFile, err)
	}

	get := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}

	for key, dst := range map[string]*string{
		EnvAuthURL:    &cfg.AuthBaseURL,
		EnvUserURL:    &cfg.UserBaseURL,
		EnvDatabase:   &cfg.DatabasePath,
		EnvDeviceKey:  &cfg.DeviceKeyPath,
		EnvLogLevel:   &cfg.LogLevel,
		EnvLogBackend: &cfg.LogBackend,
	} {
		if v, ok := get(key); ok && v != "" {
			*dst = v
		}
	}

	for key, dst := range map[string]*time.Duration{
		EnvFocusDuration: &cfg.FocusDuration,
		EnvFocusTick:     &cfg.FocusTick,
	} {
		if v, ok := get(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = d
		}
	}

	if v, ok := get(EnvFocusAuthorized); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvFocusAuthorized, err)
		}
		cfg.FocusAuthorized = b
	}
	return nil
}
