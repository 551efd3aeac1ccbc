package core

import (
	"context"
	"fmt"

	"pkt.systems/netskin/schema"
	"pkt.systems/pslog"
)

// GreeterTarget brands the system login greeter. Its context always exists;
// the restart after an apply is gated on the absence of interactive sessions
// so a logged-in user is never interrupted.
type GreeterTarget struct {
	ctrl  GreeterController
	badge schema.ArtifactRef
	log   pslog.Logger
}

// NewGreeterTarget constructs the greeter branding target. badge is optional;
// when empty no badge is written.
func NewGreeterTarget(ctrl GreeterController, badge schema.ArtifactRef, logger pslog.Logger) *GreeterTarget {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &GreeterTarget{ctrl: ctrl, badge: badge, log: logger}
}

// Name implements Target.
func (t *GreeterTarget) Name() string { return "greeter" }

// ResolveContext implements Target; the greeter context is fixed.
func (t *GreeterTarget) ResolveContext(ctx context.Context) (schema.ContextID, error) {
	return schema.GreeterContext, nil
}

// Apply writes the background, a human-readable network label and the
// optional badge.
func (t *GreeterTarget) Apply(ctx context.Context, id schema.ContextID, connection string, artifact schema.ArtifactRef, routeDevice string) error {
	return t.ctrl.ApplySettings(ctx, artifact, GreeterLabel(connection, routeDevice), t.badge)
}

// PostApply restarts the greeter only when nobody is logged in.
func (t *GreeterTarget) PostApply(ctx context.Context, id schema.ContextID) error {
	idle, err := t.ctrl.NoInteractiveSessionsPresent(ctx)
	if err != nil {
		return fmt.Errorf("session presence check: %w", err)
	}
	if !idle {
		t.log.Debug("greeter restart suppressed", "reason", "interactive sessions present")
		return nil
	}
	if err := t.ctrl.RestartGreeterProcess(ctx); err != nil {
		// Applied settings stay in place; only the restart is lost.
		return fmt.Errorf("greeter restart: %w", err)
	}
	t.log.Info("greeter restarted")
	return nil
}

// GreeterLabel composes the human-readable label shown by the greeter,
// incorporating the connection name and, when known, the default-route
// device.
func GreeterLabel(connection, routeDevice string) string {
	if connection == "" {
		return "Network: unknown"
	}
	if routeDevice == "" {
		return fmt.Sprintf("Network: %s", connection)
	}
	return fmt.Sprintf("Network: %s (%s)", connection, routeDevice)
}
