// Package app is the composition root of fichas.
//
// # Overview
//
// Run wires configuration, logging, the API client, the status store and the
// TUI together. Submit and Status drive the same workflow session and status
// probe without a screen, for scripts and quick checks.
//
// # Startup
//
//  1. Load ~/.config/fichas/config.toml (or --config) and apply --api/--out
//  2. Open the JSON log file; the TUI owns the terminal
//  3. Load preferences (theme, last output directory)
//  4. Build the API client with the resolved config
//  5. Start the status poller, which backs off while the API is down
//  6. Run the Bubble Tea program until the user quits
//
// # Components
//
//   - app.go: Run and config resolution
//   - headless.go: Submit and Status for the non-interactive commands
//   - poller.go: background probe of GET / and GET /api/health
//   - logging.go: slog handlers for the file and stderr sinks
//
// The poller never touches the workflow session. Submissions are owned by the
// UI event loop, so a slow or failing status probe cannot block an upload.
package app
