// Package cli provides the interactive AricaInsights agent command line.
//
// It wires configuration, the session manager, the platform API client,
// and the system scanner into an interactive REPL. Typical flow: restore
// the stored session on startup, start a background connectivity watcher,
// and execute user commands.
//
// Key features:
//   - Login / Signup / Logout against the platform
//   - Keyword tracking and mention listing (output sanitized)
//   - System scan and the full audit flow (create, upload, questionnaire)
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
