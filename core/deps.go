package core

import (
	"context"

	"pkt.systems/netskin/schema"
	"pkt.systems/pslog"
)

// NetworkProber supplies read-only network snapshots for one decision cycle.
type NetworkProber interface {
	// ActiveConnections lists connections with type, bound device and
	// active flag.
	ActiveConnections(ctx context.Context) ([]schema.Connection, error)
	// DefaultRouteDevice returns the outbound device of the default
	// route, or "" when no default route exists.
	DefaultRouteDevice(ctx context.Context) (string, error)
}

// SessionProber supplies read-only login-session snapshots.
type SessionProber interface {
	// Sessions lists logind sessions with type, active, remote and seat.
	Sessions(ctx context.Context) ([]schema.Session, error)
	// ShellOwners lists owners of live desktop-shell processes, ordered
	// earliest start time first.
	ShellOwners(ctx context.Context) ([]string, error)
	// BusOwners lists users with a live per-user bus socket.
	BusOwners(ctx context.Context) ([]string, error)
}

// SettingsWriter applies branding artifacts to a user's session.
type SettingsWriter interface {
	// ApplySettings writes the background and lock-screen artifacts into
	// the user's desktop configuration store. Synchronous; may fail when
	// the session is gone or the write is denied. Never retried within a
	// cycle.
	ApplySettings(ctx context.Context, userName string, background, lockscreen schema.ArtifactRef) error
}

// GreeterController applies branding to the login greeter and manages its
// restart.
type GreeterController interface {
	// ApplySettings writes the greeter background, label and optional
	// badge. An empty or missing badge is silently omitted and never
	// blocks the background.
	ApplySettings(ctx context.Context, background schema.ArtifactRef, label string, badge schema.ArtifactRef) error
	// NoInteractiveSessionsPresent reports whether the greeter can be
	// restarted without interrupting anyone.
	NoInteractiveSessionsPresent(ctx context.Context) (bool, error)
	// RestartGreeterProcess restarts the greeter so it picks up settings.
	RestartGreeterProcess(ctx context.Context) error
}

// DecisionStore keeps the last applied decision per context.
type DecisionStore interface {
	Get(id schema.ContextID) (schema.Decision, bool, error)
	Put(decision schema.Decision) error
}

// OrchestratorDeps captures the orchestrator's collaborators.
type OrchestratorDeps struct {
	Network NetworkProber
	Store   DecisionStore
	Logger  pslog.Logger
}
