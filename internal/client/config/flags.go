package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/studyplanner/internal/flagx"
)

// parseFlags overlays cfg with command-line flags.
//
//	-a string   authentication service base URL
//	-u string   user-data service base URL
//	-d string   SQLite database path
//	-k string   device key file path
//	-l string   log level
//
// Only these flags are taken from args (see flagx.FilterArgs).
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-u", "-d", "-k", "-l"})

	fs := flag.NewFlagSet("studyplanner", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.AuthBaseURL, "a", cfg.AuthBaseURL, "authentication service base URL")
	fs.StringVar(&cfg.UserBaseURL, "u", cfg.UserBaseURL, "user-data service base URL")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local database")
	fs.StringVar(&cfg.DeviceKeyPath, "k", cfg.DeviceKeyPath, "path to the device key file")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")

	return fs.Parse(args)
}
