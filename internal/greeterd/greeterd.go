// Package greeterd applies branding to the login greeter and restarts it
// when that cannot interrupt anyone.
package greeterd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"pkt.systems/netskin/schema"
	"pkt.systems/pslog"
)

// SessionLister is the slice of session probing the controller needs for
// restart gating.
type SessionLister interface {
	Sessions(ctx context.Context) ([]schema.Session, error)
}

// greeterUsers own the greeter's own logind session; they never count as
// interactive.
var greeterUsers = map[string]bool{
	"gdm":     true,
	"lightdm": true,
	"sddm":    true,
}

// Controller implements core.GreeterController. Settings land in a keyfile
// the greeter reads at start; the restart is what makes them visible.
type Controller struct {
	confPath string
	unit     string
	sessions SessionLister
	log      pslog.Logger
}

// NewController constructs a controller writing confPath and restarting unit.
func NewController(confPath, unit string, sessions SessionLister, logger pslog.Logger) *Controller {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	if unit == "" {
		unit = "display-manager.service"
	}
	return &Controller{confPath: confPath, unit: unit, sessions: sessions, log: logger}
}

// ApplySettings writes the greeter keyfile atomically. A missing badge file
// is silently omitted and never blocks the background or label.
func (c *Controller) ApplySettings(ctx context.Context, background schema.ArtifactRef, label string, badge schema.ArtifactRef) error {
	content := RenderConf(background, label, c.usableBadge(badge))
	if err := os.MkdirAll(filepath.Dir(c.confPath), 0o755); err != nil {
		return fmt.Errorf("create greeter conf directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(c.confPath), "greeter-*.conf")
	if err != nil {
		return fmt.Errorf("write greeter conf: %w", err)
	}
	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write greeter conf: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write greeter conf: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write greeter conf: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.confPath); err != nil {
		return fmt.Errorf("write greeter conf: %w", err)
	}
	c.log.Debug("greeter settings written", "conf", c.confPath, "background", background)
	return nil
}

// NoInteractiveSessionsPresent reports whether only greeter-owned sessions
// (or none at all) exist.
func (c *Controller) NoInteractiveSessionsPresent(ctx context.Context) (bool, error) {
	sessions, err := c.sessions.Sessions(ctx)
	if err != nil {
		return false, fmt.Errorf("list sessions: %w", err)
	}
	for _, session := range sessions {
		if session.User == "" || greeterUsers[session.User] {
			continue
		}
		return false, nil
	}
	return true, nil
}

// RestartGreeterProcess restarts the display-manager unit.
func (c *Controller) RestartGreeterProcess(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "systemctl", "restart", c.unit)
	output, err := cmd.CombinedOutput()
	if err != nil {
		preview := strings.TrimSpace(string(output))
		if len(preview) > 200 {
			preview = preview[:200]
		}
		return fmt.Errorf("systemctl restart %s: %w (%s)", c.unit, err, preview)
	}
	return nil
}

func (c *Controller) usableBadge(badge schema.ArtifactRef) schema.ArtifactRef {
	if badge == "" {
		return ""
	}
	if _, err := os.Stat(string(badge)); err != nil {
		c.log.Debug("greeter badge omitted", "badge", badge, "err", err)
		return ""
	}
	return badge
}

// RenderConf renders the greeter keyfile. An empty badge omits the
// badge-icon line entirely.
func RenderConf(background schema.ArtifactRef, label string, badge schema.ArtifactRef) string {
	var b strings.Builder
	b.WriteString("[Greeter]\n")
	fmt.Fprintf(&b, "background=%s\n", background)
	fmt.Fprintf(&b, "banner-text=%s\n", label)
	if badge != "" {
		fmt.Fprintf(&b, "badge-icon=%s\n", badge)
	}
	return b.String()
}
