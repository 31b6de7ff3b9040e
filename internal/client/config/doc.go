// Package config loads runtime configuration for the study planner client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. STUDYPLANNER_* environment variables, falling back to a .env file in
//     the working directory.
//  3. Optional JSON file selected with -c or -config.
//  4. Command-line flags -a -u -d -k -l.
//
// # JSON schema
//
// Durations accept "25m" style strings or integer nanoseconds:
//
//	{
//	  "auth_base_url": "https://api.smartstudyplanner.com",
//	  "user_base_url": "https://api.smartstudyplanner.com/v1",
//	  "database_path": "studyplanner.db",
//	  "device_key_path": "studyplanner.key",
//	  "log_level": "info",
//	  "log_backend": "zap",
//	  "focus_duration": "25m",
//	  "focus_tick": "1s",
//	  "focus_authorized": true
//	}
package config
