package nmcli

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"pkt.systems/netskin/schema"
)

// Monitor starts `nmcli monitor` and streams decisive trigger events until
// the context is cancelled or the monitor process exits. Non-decisive lines
// are dropped at the parser; the returned channel only ever carries decisive
// events.
func (p *Prober) Monitor(ctx context.Context) (<-chan schema.TriggerEvent, error) {
	cmd := exec.CommandContext(ctx, "nmcli", "monitor")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("monitor stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start nmcli monitor: %w", err)
	}
	p.log.Info("network monitor started", "pid", cmd.Process.Pid)

	events := make(chan schema.TriggerEvent, 16)
	go func() {
		defer close(events)
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			line := scanner.Text()
			event, ok := ParseMonitorLine(line)
			if !ok {
				p.log.Trace("monitor line ignored", "line", line)
				continue
			}
			p.log.Debug("monitor event", "iface", event.Interface, "status", event.Status)
			select {
			case events <- event:
			case <-ctx.Done():
				_ = cmd.Wait()
				return
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			p.log.Warn("monitor stream error", "err", err)
		}
		if err := cmd.Wait(); err != nil && ctx.Err() == nil {
			p.log.Warn("monitor exited", "err", err)
		}
	}()
	return events, nil
}

// ParseMonitorLine maps one `nmcli monitor` line to a trigger event. Only
// connection and VPN up/down transitions are decisive; device chatter,
// connectivity changes and hostname updates parse to (_, false).
func ParseMonitorLine(line string) (schema.TriggerEvent, bool) {
	line = strings.TrimSpace(line)
	idx := strings.Index(line, ": ")
	if idx <= 0 {
		return schema.TriggerEvent{}, false
	}
	subject := line[:idx]
	rest := strings.ToLower(strings.TrimSpace(line[idx+2:]))
	switch {
	case strings.HasPrefix(rest, "vpn connection activated"),
		strings.HasPrefix(rest, "vpn connection established"):
		return schema.TriggerEvent{Interface: subject, Status: schema.StatusVPNUp}, true
	case strings.HasPrefix(rest, "vpn connection disconnected"),
		strings.HasPrefix(rest, "vpn connection deactivated"):
		return schema.TriggerEvent{Interface: subject, Status: schema.StatusVPNDown}, true
	case rest == "connected":
		return schema.TriggerEvent{Interface: subject, Status: schema.StatusUp}, true
	case rest == "disconnected", rest == "unavailable":
		return schema.TriggerEvent{Interface: subject, Status: schema.StatusDown}, true
	}
	return schema.TriggerEvent{}, false
}
