// Package cli provides the interactive recipebook command-line client.
//
// It wires configuration, the local SQLite store, the HTTP client and the
// application services behind a small REPL. Every recipe change lands in
// the local store first and is mirrored to the server in the background,
// so the CLI stays usable while the server is unreachable.
//
// Commands:
//   - register, login, logout, status
//   - add, list [remote [all]], show <id>, delete <id>, retry <id>
//   - help, exit | quit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// and then waits for in-flight sync work to finish.
package cli
