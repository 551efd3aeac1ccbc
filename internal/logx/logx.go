// Package logx centralizes log-field annotation so every line of a decision
// cycle carries the same correlating identifiers.
package logx

import (
	"pkt.systems/netskin/schema"
	"pkt.systems/pslog"
)

// WithCycle annotates the logger with the cycle-correlating identifier.
func WithCycle(log pslog.Logger, cycleID string) pslog.Logger {
	if cycleID == "" {
		return log
	}
	return log.With("cycle", cycleID)
}

// WithContext annotates the logger with the branding context id.
func WithContext(log pslog.Logger, id schema.ContextID) pslog.Logger {
	if id == "" {
		return log
	}
	return log.With("context", id)
}

// WithConnection annotates the logger with the authoritative connection name.
func WithConnection(log pslog.Logger, name string) pslog.Logger {
	if name == "" {
		return log
	}
	return log.With("connection", name)
}
