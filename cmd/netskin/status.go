package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pkt.systems/netskin/internal/appconfig"
	"pkt.systems/netskin/internal/decisionstore"
)

func newStatusCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the last applied decision per branding context",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			store, err := decisionstore.NewStore(cfg.ServiceConfig().StateDir)
			if err != nil {
				return err
			}
			decisions, err := store.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(decisions) == 0 {
				fmt.Fprintln(out, "no decisions recorded this boot")
				return nil
			}
			for _, decision := range decisions {
				connection := decision.Connection
				if connection == "" {
					connection = "(no active connection)"
				}
				fmt.Fprintf(out, "%-24s %-32s %s\n", decision.Context, connection, decision.Artifact)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "path to config file")
	return cmd
}
