package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/PathumRathnayaka/employee-monitoring-system/internal/config"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/logger"

	"github.com/spf13/cobra"
)

var (
	configPath string

	cfg *config.Config
	log *logger.Logger

	rootCmd = &cobra.Command{
		Use:           "monitor",
		Short:         "Activity monitor: reference backend and live dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = c
			log = logger.Get(cfg.LogLevel)
			return nil
		},
	}

	backendCmd = &cobra.Command{
		Use:   "backend",
		Short: "Run the event store with its REST API and push channel",
		Args:  cobra.NoArgs,
		RunE:  runBackend, // backend.go
	}

	dashboardCmd = &cobra.Command{
		Use:   "dashboard",
		Short: "Run the reconciliation engine and serve the dashboard view",
		Args:  cobra.NoArgs,
		RunE:  runDashboard, // dashboard.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default configs/config.yml)")

	dashboardCmd.Flags().String("subject", "", "subject to watch, overrides dashboard.subject_id")
	dashboardCmd.Flags().String("policy", "", "ordering policy: arrival or monotonic")
	backendCmd.Flags().Bool("simulate", false, "generate random observations")

	rootCmd.AddCommand(backendCmd, dashboardCmd)
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
