package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"auroguard/internal/logging"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "auroguard",
	Short: "AuroGuard spacecraft telemetry simulator",
	Long:  "AuroGuard simulates a spacecraft dodging orbital debris and exports its telemetry, debris events and notifications.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(logging.New(os.Stderr, logging.ParseLevel(logLevel)))
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(dashboardCmd)
}
