// Package cli provides the interactive agenda command-line client.
//
// It wires configuration, local storage, the identity provider, the session
// controller and the agenda service, then runs a REPL. Typical flow: resume
// the previous session if there is one, otherwise ask the user to log in,
// then manage subjects and sessions.
//
// Key features:
//   - Register / Login / Logout / password reset
//   - Subjects and sessions: list, add, edit, delete
//   - Month calendar and reports
//   - Stale listings when the server is unreachable
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
