package main

import (
	"github.com/spf13/cobra"

	"pkt.systems/netskin/internal/appconfig"
	"pkt.systems/pslog"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage netskin configuration",
	}
	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = appconfig.DefaultConfigPath()
			}
			if err := appconfig.Write(path, appconfig.DefaultConfig()); err != nil {
				return err
			}
			pslog.Ctx(cmd.Context()).Info("config written", "path", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "destination path (default "+appconfig.DefaultConfigPath()+")")
	return cmd
}
