// Package nmcli queries NetworkManager through its command-line client. The
// engine only sees snapshots; every query runs fresh per decision cycle.
package nmcli

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"pkt.systems/netskin/schema"
	"pkt.systems/pslog"
)

// Prober implements core.NetworkProber on top of nmcli and ip.
type Prober struct {
	log pslog.Logger
}

// NewProber constructs a prober.
func NewProber(logger pslog.Logger) *Prober {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Prober{log: logger}
}

// ActiveConnections lists configured connections with type, bound device and
// active flag.
func (p *Prober) ActiveConnections(ctx context.Context) ([]schema.Connection, error) {
	output, err := p.run(ctx, "nmcli", "-t", "-f", "NAME,TYPE,DEVICE,ACTIVE", "connection", "show")
	if err != nil {
		return nil, err
	}
	return ParseConnections(output), nil
}

// DefaultRouteDevice returns the outbound device of the default route, or ""
// when none exists. A missing default route is not an error.
func (p *Prober) DefaultRouteDevice(ctx context.Context) (string, error) {
	output, err := p.run(ctx, "ip", "-o", "route", "show", "default")
	if err != nil {
		return "", err
	}
	return ParseDefaultRoute(output), nil
}

func (p *Prober) run(ctx context.Context, name string, args ...string) (string, error) {
	log := p.log.With("cmd", name, "args", strings.Join(args, " "))
	log.Trace("probe start")
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		preview := strings.TrimSpace(string(output))
		if len(preview) > 200 {
			preview = preview[:200]
		}
		log.Warn("probe failed", "err", err, "output", preview)
		return "", fmt.Errorf("%s %s: %w (%s)", name, strings.Join(args, " "), err, preview)
	}
	log.Trace("probe ok", "output_len", len(output))
	return string(output), nil
}

// ParseConnections parses `nmcli -t -f NAME,TYPE,DEVICE,ACTIVE connection
// show` output. Terse mode escapes ':' and '\' inside values with a
// backslash; connection names routinely contain spaces and punctuation.
func ParseConnections(output string) []schema.Connection {
	var conns []schema.Connection
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := splitEscaped(line, ':')
		if len(fields) != 4 {
			continue
		}
		conns = append(conns, schema.Connection{
			Name:   fields[0],
			Type:   connectionType(fields[1]),
			Device: fields[2],
			Active: strings.EqualFold(fields[3], "yes"),
		})
	}
	return conns
}

// ParseDefaultRoute extracts the device from `ip -o route show default`
// output. With multiple default routes the first line wins (lowest metric,
// as printed by ip).
func ParseDefaultRoute(output string) string {
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		for i, field := range fields {
			if field == "dev" && i+1 < len(fields) {
				return fields[i+1]
			}
		}
	}
	return ""
}

func connectionType(value string) schema.ConnectionType {
	switch strings.ToLower(value) {
	case "vpn", "wireguard":
		return schema.ConnectionVPN
	}
	return schema.ConnectionOther
}

func splitEscaped(line string, sep rune) []string {
	var fields []string
	var b strings.Builder
	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			b.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == sep:
			fields = append(fields, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	fields = append(fields, b.String())
	return fields
}
