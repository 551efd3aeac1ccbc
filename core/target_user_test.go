package core

import (
	"context"
	"errors"
	"testing"

	"pkt.systems/netskin/schema"
)

type fakeSessionProber struct {
	sessions    []schema.Session
	shellOwners []string
	busOwners   []string
	sessionsErr error
}

func (f *fakeSessionProber) Sessions(ctx context.Context) ([]schema.Session, error) {
	return f.sessions, f.sessionsErr
}

func (f *fakeSessionProber) ShellOwners(ctx context.Context) ([]string, error) {
	return f.shellOwners, nil
}

func (f *fakeSessionProber) BusOwners(ctx context.Context) ([]string, error) {
	return f.busOwners, nil
}

type fakeWriter struct {
	calls      int
	user       string
	background schema.ArtifactRef
	lockscreen schema.ArtifactRef
	err        error
}

func (f *fakeWriter) ApplySettings(ctx context.Context, userName string, background, lockscreen schema.ArtifactRef) error {
	f.calls++
	f.user = userName
	f.background = background
	f.lockscreen = lockscreen
	return f.err
}

func TestUserTargetResolvesContext(t *testing.T) {
	prober := &fakeSessionProber{
		sessions: []schema.Session{
			{ID: "2", User: "alice", Type: schema.SessionWayland, Active: true, Seat: "seat0"},
		},
		shellOwners: []string{"alice"},
	}
	target := NewUserSessionTarget(prober, &fakeWriter{}, "seat0", nil)
	id, err := target.ResolveContext(context.Background())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if id != schema.UserContext("alice") {
		t.Fatalf("unexpected context: %s", id)
	}
}

func TestUserTargetNoContextOnHeadlessHost(t *testing.T) {
	target := NewUserSessionTarget(&fakeSessionProber{}, &fakeWriter{}, "seat0", nil)
	if _, err := target.ResolveContext(context.Background()); !errors.Is(err, schema.ErrNoTargetContext) {
		t.Fatalf("expected ErrNoTargetContext, got %v", err)
	}
}

func TestUserTargetSessionQueryFailure(t *testing.T) {
	prober := &fakeSessionProber{sessionsErr: errors.New("loginctl missing")}
	target := NewUserSessionTarget(prober, &fakeWriter{}, "seat0", nil)
	if _, err := target.ResolveContext(context.Background()); err == nil || errors.Is(err, schema.ErrNoTargetContext) {
		t.Fatalf("expected hard failure, got %v", err)
	}
}

func TestUserTargetApply(t *testing.T) {
	writer := &fakeWriter{}
	target := NewUserSessionTarget(&fakeSessionProber{}, writer, "seat0", nil)
	err := target.Apply(context.Background(), schema.UserContext("alice"), "OfficeVPN", "/office.png", "tun0")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if writer.calls != 1 || writer.user != "alice" {
		t.Fatalf("unexpected writer call: %+v", writer)
	}
	if writer.background != "/office.png" || writer.lockscreen != "/office.png" {
		t.Fatalf("artifact must cover background and lock screen: %+v", writer)
	}
}

func TestUserTargetApplyRejectsForeignContext(t *testing.T) {
	target := NewUserSessionTarget(&fakeSessionProber{}, &fakeWriter{}, "seat0", nil)
	if err := target.Apply(context.Background(), schema.GreeterContext, "", "/x.png", ""); err == nil {
		t.Fatalf("expected error for non-user context")
	}
}
