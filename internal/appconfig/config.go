package appconfig

import (
	"time"

	"pkt.systems/netskin/schema"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion      int           `mapstructure:"config_version" yaml:"config_version"`
	StateDir           string        `mapstructure:"state_dir" yaml:"state_dir"`
	LockPath           string        `mapstructure:"lock_path" yaml:"lock_path"`
	SettleDelaySeconds int           `mapstructure:"settle_delay_seconds" yaml:"settle_delay_seconds"`
	PrimarySeat        string        `mapstructure:"primary_seat" yaml:"primary_seat"`
	ShellProcesses     []string      `mapstructure:"shell_processes" yaml:"shell_processes"`
	Mapping            MappingConfig `mapstructure:"mapping" yaml:"mapping"`
	Greeter            GreeterConfig `mapstructure:"greeter" yaml:"greeter"`
	Targets            TargetsConfig `mapstructure:"targets" yaml:"targets"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// MappingConfig maps connection names to artifacts. The mapping is loaded
// once at startup and immutable for the process lifetime; edits require a
// daemon restart.
type MappingConfig struct {
	Fallback string            `mapstructure:"fallback" yaml:"fallback"`
	Entries  map[string]string `mapstructure:"entries" yaml:"entries"`
}

// GreeterConfig configures the greeter branding target.
type GreeterConfig struct {
	ConfPath string `mapstructure:"conf_path" yaml:"conf_path"`
	Unit     string `mapstructure:"unit" yaml:"unit"`
	Badge    string `mapstructure:"badge" yaml:"badge"`
}

// TargetsConfig enables or disables the two branding targets.
type TargetsConfig struct {
	UserSession bool `mapstructure:"user_session" yaml:"user_session"`
	Greeter     bool `mapstructure:"greeter" yaml:"greeter"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ConfigVersion:      CurrentConfigVersion,
		StateDir:           schema.DefaultRuntimeDir + "/state",
		LockPath:           schema.DefaultRuntimeDir + "/trigger.lock",
		SettleDelaySeconds: 1,
		PrimarySeat:        "seat0",
		ShellProcesses:     []string{"gnome-shell", "plasmashell", "cinnamon"},
		Mapping: MappingConfig{
			Fallback: "/usr/share/netskin/default.png",
			Entries:  map[string]string{},
		},
		Greeter: GreeterConfig{
			ConfPath: "/etc/netskin/greeter.conf",
			Unit:     "display-manager.service",
			Badge:    "",
		},
		Targets: TargetsConfig{
			UserSession: true,
			Greeter:     true,
		},
	}
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() string {
	return "/etc/netskin/config.yaml"
}

// ServiceConfig converts the loaded config into engine settings.
func (c Config) ServiceConfig() schema.ServiceConfig {
	return schema.NormalizeServiceConfig(schema.ServiceConfig{
		StateDir:       c.StateDir,
		LockPath:       c.LockPath,
		SettleDelay:    time.Duration(c.SettleDelaySeconds) * time.Second,
		PrimarySeat:    c.PrimarySeat,
		ShellProcesses: c.ShellProcesses,
	})
}

// BuildMapping builds the immutable connection-to-artifact mapping.
func (c Config) BuildMapping() (schema.Mapping, error) {
	entries := make(map[string]schema.ArtifactRef, len(c.Mapping.Entries))
	for name, artifact := range c.Mapping.Entries {
		entries[name] = schema.ArtifactRef(artifact)
	}
	return schema.NewMapping(entries, schema.ArtifactRef(c.Mapping.Fallback))
}
