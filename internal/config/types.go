package config

import (
	"fmt"
	"strings"

	"github.com/nibzard/tally/internal/todo"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultTodoFile  = "tasks.json"
	DefaultFormat    = FormatTable
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// Output formats for task listings.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatPlain = "plain"
)

// Config holds the full configuration for tally and passgen.
type Config struct {
	// Paths
	TodoFile   string `toml:"todo_file"`
	SchemaFile string `toml:"schema_file"` // Optional JSON Schema override

	// Tasks
	DefaultCategory string `toml:"default_category"`

	// Output
	Format  string `toml:"format"`
	NoColor bool   `toml:"no_color"`

	// Password length used by passgen when -length is not given.
	// Zero means prompt interactively.
	PasswordLength int `toml:"password_length"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Working directory (computed)
	WorkDir string `toml:"-"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"todo_file",
		"schema_file",
		"default_category",
		"format",
		"no_color",
		"password_length",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.TodoFile = DefaultTodoFile
	cfg.SchemaFile = ""
	cfg.DefaultCategory = todo.DefaultCategory
	cfg.Format = DefaultFormat
	cfg.NoColor = false
	cfg.PasswordLength = 0
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
	cfg.LogCaller = false
}

// normalizeFormat lowercases a format name and validates it.
func normalizeFormat(format string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	switch f {
	case FormatTable, FormatJSON, FormatPlain:
		return f, nil
	case "":
		return DefaultFormat, nil
	default:
		return "", fmt.Errorf("invalid format %q, must be one of: table, json, plain", format)
	}
}
