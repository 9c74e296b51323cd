// Package sqlite provides SQLite-backed persistence for chat sessions
// and messages.
package sqlite
