// Package config loads folio's TOML configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/folio/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing or empty, use defaults
//
// Missing config files are NOT an error. folio works out of the box
// against the public Google Books endpoint.
//
// # TOML Format
//
//	endpoint = "https://www.googleapis.com/books/v1/volumes"
//	debounce_ms = 500
//	request_timeout = "10s"   # default: no timeout
//	requests_per_second = 2   # default: 0 (unlimited)
//	user_agent = "folio/0.1"
//	log_level = "debug"
//	log_format = "json"       # or "console"
//	log_file = "~/.local/state/folio/folio.log"
//	metrics_addr = "127.0.0.1:9464"
//
// Every field is optional. Tilde expansion is applied to log_file.
// Negative numbers and unparsable durations are rejected.
//
// Command-line flags override values read here; that merge happens in the
// app package.
package config
