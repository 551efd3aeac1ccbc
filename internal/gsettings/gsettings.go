// Package gsettings writes desktop branding into a user's session
// configuration store by running gsettings inside the user's session bus.
package gsettings

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"strings"

	"pkt.systems/netskin/schema"
	"pkt.systems/pslog"
)

// Writer implements core.SettingsWriter for GNOME-family desktops.
type Writer struct {
	lookupUID func(userName string) (string, error)
	log       pslog.Logger
}

// NewWriter constructs a writer.
func NewWriter(logger pslog.Logger) *Writer {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Writer{lookupUID: uidByName, log: logger}
}

// ApplySettings sets the background and lock-screen keys for the user. The
// write is synchronous and fails when the user's bus is gone or the write is
// denied; the caller never retries within the same cycle.
func (w *Writer) ApplySettings(ctx context.Context, userName string, background, lockscreen schema.ArtifactRef) error {
	uid, err := w.lookupUID(userName)
	if err != nil {
		return fmt.Errorf("lookup user %q: %w", userName, err)
	}
	busAddr := fmt.Sprintf("unix:path=/run/user/%s/bus", uid)
	keys := []struct {
		schema string
		key    string
		value  string
	}{
		{"org.gnome.desktop.background", "picture-uri", ArtifactURI(background)},
		{"org.gnome.desktop.background", "picture-uri-dark", ArtifactURI(background)},
		{"org.gnome.desktop.screensaver", "picture-uri", ArtifactURI(lockscreen)},
	}
	for _, entry := range keys {
		if err := w.set(ctx, userName, busAddr, entry.schema, entry.key, entry.value); err != nil {
			return err
		}
	}
	w.log.Debug("session settings applied", "user", userName, "background", background)
	return nil
}

func (w *Writer) set(ctx context.Context, userName, busAddr, schemaID, key, value string) error {
	cmd := exec.CommandContext(ctx, "runuser", "-u", userName, "--", "gsettings", "set", schemaID, key, value)
	cmd.Env = append(os.Environ(), "DBUS_SESSION_BUS_ADDRESS="+busAddr)
	output, err := cmd.CombinedOutput()
	if err != nil {
		preview := strings.TrimSpace(string(output))
		if len(preview) > 200 {
			preview = preview[:200]
		}
		return fmt.Errorf("gsettings set %s %s for %s: %w (%s)", schemaID, key, userName, err, preview)
	}
	return nil
}

// ArtifactURI renders an artifact as a gsettings value. Absolute paths
// become file:// URIs; anything else passes through untouched.
func ArtifactURI(artifact schema.ArtifactRef) string {
	value := string(artifact)
	if strings.HasPrefix(value, "/") {
		return "file://" + value
	}
	return value
}

func uidByName(userName string) (string, error) {
	u, err := user.Lookup(userName)
	if err != nil {
		return "", err
	}
	return u.Uid, nil
}
