package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run one orphan reconciliation pass",
	Long: `Reconcile deletes download records whose files are gone (unless the
file sits on present-but-unmounted removable media) and disk files with no
download record.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return a.reconciler.Reconcile(context.Background())
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
}
