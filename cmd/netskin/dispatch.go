package main

import (
	"errors"

	"github.com/spf13/cobra"

	"pkt.systems/netskin/internal/appconfig"
	"pkt.systems/netskin/schema"
	"pkt.systems/pslog"
)

func newDispatchCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "dispatch <interface> <status>",
		Short: "Run one decision cycle for a network event",
		Long: "dispatch is invoked by the network-event notifier hook once per " +
			"event. Non-decisive statuses and events arriving while another " +
			"cycle runs are dropped silently; the next decisive event converges.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := pslog.Ctx(cmd.Context())
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			eng, err := buildEngine(cfg, logger)
			if err != nil {
				return err
			}
			event := schema.TriggerEvent{
				Interface: args[0],
				Status:    schema.TriggerStatus(args[1]),
			}
			// The trigger source is fire-and-forget: dropped events and
			// per-target failures are logged by the orchestrator and never
			// surface as a command error.
			if _, err := eng.orchestrator.Run(cmd.Context(), event); err != nil && !errors.Is(err, schema.ErrLockBusy) {
				logger.Warn("dispatch cycle aborted", "err", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "path to config file")
	return cmd
}
