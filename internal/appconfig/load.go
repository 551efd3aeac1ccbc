package appconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load reads configuration from the provided path. If path is empty, uses
// DefaultConfigPath. A missing file yields pure defaults; a present file
// must carry the supported config_version.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("config_version", cfg.ConfigVersion)
	v.SetDefault("state_dir", cfg.StateDir)
	v.SetDefault("lock_path", cfg.LockPath)
	v.SetDefault("settle_delay_seconds", cfg.SettleDelaySeconds)
	v.SetDefault("primary_seat", cfg.PrimarySeat)
	v.SetDefault("shell_processes", cfg.ShellProcesses)
	v.SetDefault("mapping.fallback", cfg.Mapping.Fallback)
	v.SetDefault("mapping.entries", cfg.Mapping.Entries)
	v.SetDefault("greeter.conf_path", cfg.Greeter.ConfPath)
	v.SetDefault("greeter.unit", cfg.Greeter.Unit)
	v.SetDefault("greeter.badge", cfg.Greeter.Badge)
	v.SetDefault("targets.user_session", cfg.Targets.UserSession)
	v.SetDefault("targets.greeter", cfg.Targets.Greeter)

	configLoaded := false
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	} else {
		configLoaded = true
	}

	if configLoaded {
		if !v.IsSet("config_version") {
			return Config{}, fmt.Errorf("config_version is required; expected %d", CurrentConfigVersion)
		}
		if v.GetInt("config_version") != CurrentConfigVersion {
			return Config{}, fmt.Errorf("unsupported config_version %d; expected %d", v.GetInt("config_version"), CurrentConfigVersion)
		}
		if !v.IsSet("mapping.fallback") {
			return Config{}, fmt.Errorf("mapping.fallback is required for config_version %d", CurrentConfigVersion)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	expandConfigEnv(&cfg)
	if cfg.SettleDelaySeconds < 0 {
		return Config{}, fmt.Errorf("settle_delay_seconds must not be negative")
	}
	return cfg, nil
}

// Write emits the config as YAML at path, refusing to overwrite an existing
// file.
func Write(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func expandConfigEnv(cfg *Config) {
	if cfg == nil {
		return
	}
	cfg.StateDir = expandEnv(cfg.StateDir)
	cfg.LockPath = expandEnv(cfg.LockPath)
	cfg.Mapping.Fallback = expandEnv(cfg.Mapping.Fallback)
	for name, artifact := range cfg.Mapping.Entries {
		cfg.Mapping.Entries[name] = expandEnv(artifact)
	}
	cfg.Greeter.ConfPath = expandEnv(cfg.Greeter.ConfPath)
	cfg.Greeter.Badge = expandEnv(cfg.Greeter.Badge)
}

func expandEnv(value string) string {
	if value == "" {
		return value
	}
	return os.Expand(value, func(key string) string {
		if key == "" {
			return ""
		}
		if val, ok := os.LookupEnv(key); ok {
			return val
		}
		return "$" + key
	})
}
