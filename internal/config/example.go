package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tally configuration file
# Values can be overridden by TALLY_* environment variables or CLI flags

# Task file (relative to the working directory, supports ~ and $VAR)
todo_file = "tasks.json"

# Optional JSON Schema used instead of the built-in task schema
# schema_file = "tasks.schema.json"

# Category used by "add" when --cat is not given
default_category = "General"

# Listing format: table, json, or plain
format = "table"

# Disable colors in table output
no_color = false

# Default passgen length (0 prompts interactively)
password_length = 0

# Logging (written to stderr)
log_level = "warn"     # debug, info, warn, error
log_format = "text"    # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
