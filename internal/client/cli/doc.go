// Package cli provides the GophChat command-line client.
//
// Commands are built with cobra: register, login, logout, whoami, ask,
// chat (an interactive REPL), threads, export and ping. Tokens are kept in
// a session file between invocations and refreshed transparently; rotated
// tokens are written back to the session.
package cli
