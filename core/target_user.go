package core

import (
	"context"
	"fmt"

	"pkt.systems/netskin/schema"
	"pkt.systems/pslog"
)

// UserSessionTarget brands the active local graphical user session. When no
// such session exists the cycle ends skipped, which is the expected state on
// headless hosts.
type UserSessionTarget struct {
	sessions    SessionProber
	writer      SettingsWriter
	primarySeat string
	log         pslog.Logger
}

// NewUserSessionTarget constructs the user-session branding target.
func NewUserSessionTarget(sessions SessionProber, writer SettingsWriter, primarySeat string, logger pslog.Logger) *UserSessionTarget {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &UserSessionTarget{sessions: sessions, writer: writer, primarySeat: primarySeat, log: logger}
}

// Name implements Target.
func (t *UserSessionTarget) Name() string { return "user-session" }

// ResolveContext locates the graphical user via the three-tier fallback.
func (t *UserSessionTarget) ResolveContext(ctx context.Context) (schema.ContextID, error) {
	sessions, err := t.sessions.Sessions(ctx)
	if err != nil {
		return "", fmt.Errorf("list sessions: %w", err)
	}
	shellOwners, err := t.sessions.ShellOwners(ctx)
	if err != nil {
		t.log.Warn("shell owner scan failed", "err", err)
		shellOwners = nil
	}
	busOwners, err := t.sessions.BusOwners(ctx)
	if err != nil {
		t.log.Warn("user bus scan failed", "err", err)
		busOwners = nil
	}
	user, ok := LocateGraphicalUser(sessions, shellOwners, busOwners, t.primarySeat)
	if !ok {
		return "", schema.ErrNoTargetContext
	}
	return schema.UserContext(user), nil
}

// Apply writes the artifact as both background and lock screen.
func (t *UserSessionTarget) Apply(ctx context.Context, id schema.ContextID, connection string, artifact schema.ArtifactRef, routeDevice string) error {
	user := id.UserName()
	if user == "" {
		return fmt.Errorf("context %q is not a user session", id)
	}
	return t.writer.ApplySettings(ctx, user, artifact, artifact)
}

// PostApply implements Target; the user-session flavor has no hook.
func (t *UserSessionTarget) PostApply(ctx context.Context, id schema.ContextID) error {
	return nil
}
