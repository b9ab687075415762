package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const envPrefix = "TALLY_"

// loadFromEnv overrides config from environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	mark := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := getenv("TODO"); v != "" {
		cfg.TodoFile = v
		mark("todo_file")
	}
	if v := getenv("SCHEMA"); v != "" {
		cfg.SchemaFile = v
		mark("schema_file")
	}
	if v := getenv("CATEGORY"); v != "" {
		cfg.DefaultCategory = v
		mark("default_category")
	}
	if v := getenv("FORMAT"); v != "" {
		cfg.Format = v
		mark("format")
	}
	if v := getenv("NO_COLOR"); v != "" {
		cfg.NoColor = boolFromString(v)
		mark("no_color")
	} else if os.Getenv("NO_COLOR") != "" {
		// https://no-color.org
		cfg.NoColor = true
		mark("no_color")
	}
	if v := getenv("PASSWORD_LENGTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sPASSWORD_LENGTH must be an integer, got %q", envPrefix, v)
		}
		cfg.PasswordLength = n
		mark("password_length")
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		mark("log_level")
	}
	if v := getenv("LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		mark("log_format")
	}
	if v := getenv("LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		mark("log_timestamps")
	}
	if v := getenv("LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		mark("log_caller")
	}
	return nil
}

func getenv(name string) string {
	return strings.TrimSpace(os.Getenv(envPrefix + name))
}

func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
