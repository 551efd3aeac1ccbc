package logind

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"pkt.systems/netskin/schema"
)

func TestParseSessionList(t *testing.T) {
	output := "     2 1000 alice seat0 tty2 \n" +
		"     5 1001 bob   -     pts/0\n" +
		"\n"
	ids := ParseSessionList(output)
	if len(ids) != 2 || ids[0] != "2" || ids[1] != "5" {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestParseSessionProperties(t *testing.T) {
	output := "Id=2\nName=alice\nType=wayland\nActive=yes\nRemote=no\nSeat=seat0\n"
	session := ParseSessionProperties("2", output)
	want := schema.Session{ID: "2", User: "alice", Type: schema.SessionWayland, Active: true, Remote: false, Seat: "seat0"}
	if session != want {
		t.Fatalf("unexpected session:\nwant: %+v\ngot:  %+v", want, session)
	}
}

func TestParseSessionPropertiesRemoteTTY(t *testing.T) {
	output := "Id=5\nName=bob\nType=tty\nActive=no\nRemote=yes\nSeat=\n"
	session := ParseSessionProperties("5", output)
	if session.Type != schema.SessionOther {
		t.Fatalf("expected tty to classify as other, got %s", session.Type)
	}
	if session.Active || !session.Remote {
		t.Fatalf("unexpected flags: %+v", session)
	}
	if session.Type.Graphical() {
		t.Fatalf("tty session must not be graphical")
	}
}

func TestParseStartTime(t *testing.T) {
	stat := "1234 (gnome-shell) S 1 1234 1234 0 -1 4194560 1 0 0 0 5 3 0 0 20 0 12 0 4321 123456 789 18446744073709551615"
	start, ok := parseStartTime(stat)
	if !ok || start != 4321 {
		t.Fatalf("unexpected start time: %d ok=%v", start, ok)
	}
	// comm with spaces and parens
	stat = "99 (web content (x)) S 1 99 99 0 -1 0 0 0 0 0 0 0 0 0 20 0 1 0 777 0 0 0"
	start, ok = parseStartTime(stat)
	if !ok || start != 777 {
		t.Fatalf("unexpected start time for padded comm: %d ok=%v", start, ok)
	}
	if _, ok := parseStartTime("garbage"); ok {
		t.Fatalf("expected parse failure for garbage stat")
	}
}

func TestShellOwnersOrdersByStartTime(t *testing.T) {
	procRoot := t.TempDir()
	writeProc(t, procRoot, "300", "gnome-shell", "300 (gnome-shell) S 1 1 1 0 -1 0 0 0 0 0 0 0 0 0 20 0 1 0 900 0 0 0")
	writeProc(t, procRoot, "200", "gnome-shell", "200 (gnome-shell) S 1 1 1 0 -1 0 0 0 0 0 0 0 0 0 20 0 1 0 100 0 0 0")
	writeProc(t, procRoot, "400", "bash", "400 (bash) S 1 1 1 0 -1 0 0 0 0 0 0 0 0 0 20 0 1 0 50 0 0 0")

	prober := NewProber([]string{"gnome-shell"}, nil)
	prober.procRoot = procRoot
	names := map[string]string{}
	prober.lookupUser = func(uid string) (string, error) {
		if name, ok := names[uid]; ok {
			return name, nil
		}
		return "user" + uid, nil
	}
	owners, err := prober.ShellOwners(context.Background())
	if err != nil {
		t.Fatalf("shell owners: %v", err)
	}
	// Both dirs are owned by the test user, so both procs map to the same
	// owner and the earliest start wins the single slot.
	if len(owners) != 1 {
		t.Fatalf("expected one deduplicated owner, got %v", owners)
	}
}

func TestBusOwnersMissingDir(t *testing.T) {
	prober := NewProber(nil, nil)
	prober.runUserDir = filepath.Join(t.TempDir(), "missing")
	owners, err := prober.BusOwners(context.Background())
	if err != nil {
		t.Fatalf("bus owners: %v", err)
	}
	if len(owners) != 0 {
		t.Fatalf("expected no owners, got %v", owners)
	}
}

func TestBusOwnersIgnoresNonSockets(t *testing.T) {
	runUser := t.TempDir()
	if err := os.MkdirAll(filepath.Join(runUser, "1000"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	// A regular file named bus must not count as a live user bus.
	if err := os.WriteFile(filepath.Join(runUser, "1000", "bus"), nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	prober := NewProber(nil, nil)
	prober.runUserDir = runUser
	prober.lookupUser = func(uid string) (string, error) { return "alice", nil }
	owners, err := prober.BusOwners(context.Background())
	if err != nil {
		t.Fatalf("bus owners: %v", err)
	}
	if len(owners) != 0 {
		t.Fatalf("expected no owners for regular file, got %v", owners)
	}
}

func writeProc(t *testing.T, root, pid, comm, stat string) {
	t.Helper()
	dir := filepath.Join(root, pid)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "comm"), []byte(comm+"\n"), 0o644); err != nil {
		t.Fatalf("write comm: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "stat"), []byte(stat), 0o644); err != nil {
		t.Fatalf("write stat: %v", err)
	}
}
