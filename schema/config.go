package schema

import "time"

// ServiceConfig defines paths and timings for the decision engine.
type ServiceConfig struct {
	// StateDir holds one decision record per context. It must live on
	// boot-ephemeral storage (tmpfs) so a reboot forces re-evaluation.
	StateDir string
	// LockPath is the cross-process trigger lock file.
	LockPath string
	// SettleDelay is the wait after an admitted event before querying
	// network and session state, to avoid acting on transient states.
	SettleDelay time.Duration
	// PrimarySeat is the seat preferred when locating a graphical user.
	PrimarySeat string
	// ShellProcesses names the desktop-shell processes whose owners count
	// as live graphical users.
	ShellProcesses []string
}

// DefaultSettleDelay is the documented default settle delay.
const DefaultSettleDelay = time.Second

// DefaultRuntimeDir is the boot-ephemeral runtime directory.
const DefaultRuntimeDir = "/run/netskin"

// NormalizeServiceConfig applies defaults.
func NormalizeServiceConfig(cfg ServiceConfig) ServiceConfig {
	if cfg.StateDir == "" {
		cfg.StateDir = DefaultRuntimeDir + "/state"
	}
	if cfg.LockPath == "" {
		cfg.LockPath = DefaultRuntimeDir + "/trigger.lock"
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	if cfg.PrimarySeat == "" {
		cfg.PrimarySeat = "seat0"
	}
	if len(cfg.ShellProcesses) == 0 {
		cfg.ShellProcesses = []string{"gnome-shell", "plasmashell", "cinnamon"}
	}
	return cfg
}
