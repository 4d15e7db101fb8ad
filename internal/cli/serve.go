package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vertextoedge/download-janitor/internal/service/maintenance"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run periodic reconciliation and temp cleanup until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		svc := maintenance.New(&maintenance.Config{
			ReconcileInterval: a.cfg.Maintenance.GetReconcileInterval(),
			TempFileMaxAge:    a.cfg.Maintenance.GetTempFileMaxAge(),
		}, a.reconciler, a.fs, a.layout, a.log)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return svc.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
