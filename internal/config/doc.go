// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.tally/tally.toml or OS-specific config directory)
// 3. Project config file (tally.toml or .tally.toml in the working directory)
// 4. Environment variables (TALLY_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.tally/tally.toml (preferred)
// - Windows: %APPDATA%\tally\tally.toml
// - macOS: ~/Library/Application Support/tally/tally.toml
// - Linux/BSD: $XDG_CONFIG_HOME/tally/tally.toml or ~/.config/tally/tally.toml
//
// Project-level config locations (overrides user config):
// - ./tally.toml (preferred)
// - ./.tally.toml
package config
