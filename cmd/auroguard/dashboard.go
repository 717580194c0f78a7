package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"auroguard/internal/config"
	"auroguard/internal/dashboard"
)

var dashboardOut string

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Render the Grafana dashboard",
	Long:  "dashboard renders the Grafana dashboard JSON for the configured GreptimeDB datasource and tables.",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := config.LoadEnv()
		if err != nil {
			return err
		}
		paths, err := dashboard.Render(dashboardOut, dashboard.Params{
			DatasourceUID:     e.DatasourceUID,
			TelemetryTable:    e.TelemetryTable,
			DebrisEventTable:  e.DebrisEventTable,
			NotificationTable: e.NotificationTable,
		})
		if err != nil {
			return err
		}
		for _, p := range paths {
			slog.Info("dashboard written", "path", p)
		}
		return nil
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardOut, "out", "build", "Output directory")
}
