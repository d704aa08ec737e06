// Package app is the composition root for folio.
//
// # Overview
//
// Run and Search share one setup path:
//
//  1. Load ~/.config/folio/config.toml (or the path given) and apply
//     command-line overrides on top
//  2. Install the global zerolog logger writing to the log file
//  3. Build the books client with the configured endpoint, user agent,
//     timeout and rate limit
//
// Run then starts the optional Prometheus listener, reads the theme from
// prefs and hands everything to the Bubble Tea program in package ui. It
// blocks until the user quits or the context is cancelled.
//
// Search performs a single non-interactive query through the same search
// state machine the TUI uses, so outcomes and messages match: each book is
// printed as three lines (title, authors, thumbnail), an empty result
// prints the no-results message and a failed request is returned as an
// error carrying the network-failure message.
//
// Logs prints the tail of the log file through package logtail, so the
// file written while the TUI owned the terminal can be read afterwards.
//
// # Components
//
//   - app.go: Run, Search, Logs and shared setup
//   - metrics.go: background /metrics listener bound to the context
package app
