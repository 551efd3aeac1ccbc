// Package logind snapshots login sessions and the processes that indicate a
// live graphical user: desktop-shell processes and per-user bus sockets.
package logind

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"pkt.systems/netskin/schema"
	"pkt.systems/pslog"
)

// Prober implements core.SessionProber on top of loginctl, /proc and
// /run/user.
type Prober struct {
	shellNames map[string]bool
	procRoot   string
	runUserDir string
	lookupUser func(uid string) (string, error)
	log        pslog.Logger
}

// NewProber constructs a prober that recognizes the given desktop-shell
// process names.
func NewProber(shellNames []string, logger pslog.Logger) *Prober {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	names := make(map[string]bool, len(shellNames))
	for _, name := range shellNames {
		names[name] = true
	}
	return &Prober{
		shellNames: names,
		procRoot:   "/proc",
		runUserDir: "/run/user",
		lookupUser: userNameByID,
		log:        logger,
	}
}

// Sessions lists logind sessions with type, active, remote and seat.
func (p *Prober) Sessions(ctx context.Context) ([]schema.Session, error) {
	output, err := p.run(ctx, "loginctl", "list-sessions", "--no-legend")
	if err != nil {
		return nil, err
	}
	ids := ParseSessionList(output)
	sessions := make([]schema.Session, 0, len(ids))
	for _, id := range ids {
		detail, err := p.run(ctx, "loginctl", "show-session", id,
			"-p", "Id", "-p", "Name", "-p", "Type", "-p", "Active", "-p", "Remote", "-p", "Seat")
		if err != nil {
			// A session can vanish between list and show; skip it.
			p.log.Debug("session detail unavailable", "session", id, "err", err)
			continue
		}
		sessions = append(sessions, ParseSessionProperties(id, detail))
	}
	return sessions, nil
}

// ShellOwners lists owners of live desktop-shell processes, ordered earliest
// start time first so the longest-running shell wins tier-2 selection.
func (p *Prober) ShellOwners(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(p.procRoot)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", p.procRoot, err)
	}
	type shellProc struct {
		owner string
		start uint64
		pid   int
	}
	var procs []shellProc
	for _, entry := range entries {
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		dir := filepath.Join(p.procRoot, entry.Name())
		comm, err := os.ReadFile(filepath.Join(dir, "comm"))
		if err != nil {
			continue
		}
		if !p.shellNames[strings.TrimSpace(string(comm))] {
			continue
		}
		var st unix.Stat_t
		if err := unix.Stat(dir, &st); err != nil {
			continue
		}
		owner, err := p.lookupUser(strconv.FormatUint(uint64(st.Uid), 10))
		if err != nil {
			continue
		}
		stat, err := os.ReadFile(filepath.Join(dir, "stat"))
		if err != nil {
			continue
		}
		start, ok := parseStartTime(string(stat))
		if !ok {
			continue
		}
		procs = append(procs, shellProc{owner: owner, start: start, pid: pid})
	}
	sort.Slice(procs, func(i, j int) bool {
		if procs[i].start != procs[j].start {
			return procs[i].start < procs[j].start
		}
		return procs[i].pid < procs[j].pid
	})
	seen := make(map[string]bool, len(procs))
	owners := make([]string, 0, len(procs))
	for _, proc := range procs {
		if seen[proc.owner] {
			continue
		}
		seen[proc.owner] = true
		owners = append(owners, proc.owner)
	}
	return owners, nil
}

// BusOwners lists users with a live per-user bus socket under /run/user,
// ordered by uid so tier-3 selection is deterministic.
func (p *Prober) BusOwners(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(p.runUserDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan %s: %w", p.runUserDir, err)
	}
	type busUser struct {
		uid  int
		name string
	}
	var users []busUser
	for _, entry := range entries {
		uid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		bus := filepath.Join(p.runUserDir, entry.Name(), "bus")
		var st unix.Stat_t
		if err := unix.Stat(bus, &st); err != nil {
			continue
		}
		if st.Mode&unix.S_IFMT != unix.S_IFSOCK {
			continue
		}
		name, err := p.lookupUser(entry.Name())
		if err != nil {
			continue
		}
		users = append(users, busUser{uid: uid, name: name})
	}
	sort.Slice(users, func(i, j int) bool { return users[i].uid < users[j].uid })
	owners := make([]string, 0, len(users))
	for _, u := range users {
		owners = append(owners, u.name)
	}
	return owners, nil
}

func (p *Prober) run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		preview := strings.TrimSpace(string(output))
		if len(preview) > 200 {
			preview = preview[:200]
		}
		return "", fmt.Errorf("%s %s: %w (%s)", name, strings.Join(args, " "), err, preview)
	}
	return string(output), nil
}

// ParseSessionList extracts session ids from `loginctl list-sessions
// --no-legend` output (first column).
func ParseSessionList(output string) []string {
	var ids []string
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		ids = append(ids, fields[0])
	}
	return ids
}

// ParseSessionProperties parses `loginctl show-session` Key=Value output.
func ParseSessionProperties(id string, output string) schema.Session {
	session := schema.Session{ID: id, Type: schema.SessionOther}
	for _, line := range strings.Split(output, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		switch key {
		case "Id":
			if value != "" {
				session.ID = value
			}
		case "Name":
			session.User = value
		case "Type":
			switch value {
			case "wayland":
				session.Type = schema.SessionWayland
			case "x11":
				session.Type = schema.SessionX11
			default:
				session.Type = schema.SessionOther
			}
		case "Active":
			session.Active = value == "yes"
		case "Remote":
			session.Remote = value == "yes"
		case "Seat":
			session.Seat = value
		}
	}
	return session
}

// parseStartTime extracts the process start time (clock ticks since boot)
// from /proc/<pid>/stat. The comm field may contain spaces and parentheses,
// so fields are counted from the last closing paren.
func parseStartTime(stat string) (uint64, bool) {
	idx := strings.LastIndexByte(stat, ')')
	if idx < 0 || idx+2 > len(stat) {
		return 0, false
	}
	fields := strings.Fields(stat[idx+1:])
	// fields[0] is field 3 (state); start time is field 22.
	if len(fields) < 20 {
		return 0, false
	}
	start, err := strconv.ParseUint(fields[19], 10, 64)
	if err != nil {
		return 0, false
	}
	return start, true
}

func userNameByID(uid string) (string, error) {
	u, err := user.LookupId(uid)
	if err != nil {
		return "", err
	}
	return u.Username, nil
}
