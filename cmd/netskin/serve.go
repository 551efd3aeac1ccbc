package main

import (
	"errors"

	"github.com/spf13/cobra"

	"pkt.systems/netskin/internal/appconfig"
	"pkt.systems/netskin/internal/eventbus"
	"pkt.systems/netskin/schema"
	"pkt.systems/pslog"
)

func newServeCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the resident branding daemon",
		Long: "serve monitors NetworkManager for connection changes and runs a " +
			"decision cycle per decisive event. No cycle failure is fatal; the " +
			"daemon stays resident until signalled.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := pslog.Ctx(ctx)
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			eng, err := buildEngine(cfg, logger)
			if err != nil {
				return err
			}

			events, err := eng.network.Monitor(ctx)
			if err != nil {
				return err
			}
			bus := eventbus.New(logger)
			triggers, cancel := bus.Subscribe()
			defer cancel()
			monitorDone := make(chan struct{})
			go func() {
				defer close(monitorDone)
				for event := range events {
					bus.Publish(event)
				}
			}()

			logger.Info("netskin daemon started",
				"state_dir", cfg.StateDir,
				"mappings", len(cfg.Mapping.Entries),
				"user_session", cfg.Targets.UserSession,
				"greeter", cfg.Targets.Greeter)

			for {
				select {
				case <-ctx.Done():
					logger.Info("netskin daemon stopping")
					return nil
				case <-monitorDone:
					if ctx.Err() != nil {
						return nil
					}
					return errors.New("network monitor exited")
				case event := <-triggers:
					if _, err := eng.orchestrator.Run(ctx, event); err != nil && !errors.Is(err, schema.ErrLockBusy) {
						logger.Warn("cycle aborted", "err", err)
					}
				}
			}
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "path to config file")
	return cmd
}
