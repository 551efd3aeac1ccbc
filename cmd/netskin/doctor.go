package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"pkt.systems/netskin/core"
	"pkt.systems/netskin/internal/appconfig"
	"pkt.systems/pslog"
)

func newDoctorCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run netskin diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := pslog.Ctx(cmd.Context())
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			svc := cfg.ServiceConfig()
			logger.Info("doctor start", "state_dir", svc.StateDir, "lock_path", svc.LockPath)

			for _, tool := range []string{"nmcli", "ip", "loginctl", "systemctl", "runuser"} {
				path, err := exec.LookPath(tool)
				if err != nil {
					return fmt.Errorf("required tool %q not found: %w", tool, err)
				}
				logger.Info("doctor tool ok", "tool", tool, "path", path)
			}

			if err := os.MkdirAll(svc.StateDir, 0o755); err != nil {
				return fmt.Errorf("state directory unusable: %w", err)
			}
			probe, err := os.CreateTemp(svc.StateDir, "doctor-*")
			if err != nil {
				return fmt.Errorf("state directory not writable: %w", err)
			}
			_ = probe.Close()
			_ = os.Remove(probe.Name())
			logger.Info("doctor state dir ok", "state_dir", svc.StateDir)

			gate := core.NewTriggerGate(svc.LockPath, 0, logger)
			release, err := gate.Acquire()
			if err != nil {
				return fmt.Errorf("trigger lock unavailable: %w", err)
			}
			release()
			logger.Info("doctor trigger lock ok", "lock_path", svc.LockPath)

			if _, err := cfg.BuildMapping(); err != nil {
				return fmt.Errorf("mapping invalid: %w", err)
			}
			logger.Info("doctor mapping ok", "entries", len(cfg.Mapping.Entries), "fallback", cfg.Mapping.Fallback)
			logger.Info("doctor ok")
			return nil
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "path to config file")
	return cmd
}
