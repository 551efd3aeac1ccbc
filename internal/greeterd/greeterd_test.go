package greeterd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pkt.systems/netskin/schema"
)

type fakeSessions struct {
	sessions []schema.Session
	err      error
}

func (f *fakeSessions) Sessions(ctx context.Context) ([]schema.Session, error) {
	return f.sessions, f.err
}

func TestRenderConf(t *testing.T) {
	content := RenderConf("/office.png", "Network: OfficeVPN (tun0)", "/badge.svg")
	want := "[Greeter]\nbackground=/office.png\nbanner-text=Network: OfficeVPN (tun0)\nbadge-icon=/badge.svg\n"
	if content != want {
		t.Fatalf("unexpected conf:\nwant: %q\ngot:  %q", want, content)
	}
	content = RenderConf("/office.png", "Network: unknown", "")
	if strings.Contains(content, "badge-icon") {
		t.Fatalf("empty badge must be omitted, got %q", content)
	}
}

func TestApplySettingsWritesConf(t *testing.T) {
	dir := t.TempDir()
	confPath := filepath.Join(dir, "greeter.conf")
	badge := filepath.Join(dir, "badge.svg")
	if err := os.WriteFile(badge, []byte("<svg/>"), 0o644); err != nil {
		t.Fatalf("write badge: %v", err)
	}
	ctrl := NewController(confPath, "", &fakeSessions{}, nil)
	if err := ctrl.ApplySettings(context.Background(), "/office.png", "Network: OfficeVPN", schema.ArtifactRef(badge)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	data, err := os.ReadFile(confPath)
	if err != nil {
		t.Fatalf("read conf: %v", err)
	}
	if !strings.Contains(string(data), "background=/office.png") {
		t.Fatalf("missing background: %q", data)
	}
	if !strings.Contains(string(data), "badge-icon="+badge) {
		t.Fatalf("missing badge: %q", data)
	}
}

func TestApplySettingsOmitsMissingBadge(t *testing.T) {
	confPath := filepath.Join(t.TempDir(), "greeter.conf")
	ctrl := NewController(confPath, "", &fakeSessions{}, nil)
	err := ctrl.ApplySettings(context.Background(), "/office.png", "Network: OfficeVPN", "/nonexistent/badge.svg")
	if err != nil {
		t.Fatalf("missing badge must not block apply: %v", err)
	}
	data, err := os.ReadFile(confPath)
	if err != nil {
		t.Fatalf("read conf: %v", err)
	}
	if strings.Contains(string(data), "badge-icon") {
		t.Fatalf("missing badge must be omitted, got %q", data)
	}
}

func TestNoInteractiveSessionsPresent(t *testing.T) {
	ctrl := NewController(filepath.Join(t.TempDir(), "c"), "", &fakeSessions{
		sessions: []schema.Session{
			{ID: "c1", User: "gdm", Type: schema.SessionWayland, Active: true},
		},
	}, nil)
	idle, err := ctrl.NoInteractiveSessionsPresent(context.Background())
	if err != nil {
		t.Fatalf("presence check: %v", err)
	}
	if !idle {
		t.Fatalf("greeter-owned session must not count as interactive")
	}

	ctrl = NewController(filepath.Join(t.TempDir(), "c"), "", &fakeSessions{
		sessions: []schema.Session{
			{ID: "c1", User: "gdm", Type: schema.SessionWayland, Active: true},
			{ID: "2", User: "alice", Type: schema.SessionWayland, Active: true},
		},
	}, nil)
	idle, err = ctrl.NoInteractiveSessionsPresent(context.Background())
	if err != nil {
		t.Fatalf("presence check: %v", err)
	}
	if idle {
		t.Fatalf("user session must count as interactive")
	}
}
