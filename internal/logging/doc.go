// Package logging builds the per-run audit log: a slog logger that appends
// one JSON line per event to a history file while mirroring events to the
// operator's console. The history file outlives the in-memory run state and
// is flushed on every exit path.
package logging
