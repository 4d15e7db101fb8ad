package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	ensurePath  string
	ensureBytes string
)

var ensureCmd = &cobra.Command{
	Use:   "ensure",
	Short: "Check that the given free space can be guaranteed for a path",
	Long: `Ensure checks free space on the partition backing --path, reclaiming
space first when the partition matches a known root, and exits non-zero if
the requested bytes cannot be guaranteed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		required, err := humanize.ParseBytes(ensureBytes)
		if err != nil {
			return fmt.Errorf("invalid --bytes value %q: %w", ensureBytes, err)
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		f, err := os.Open(ensurePath)
		if err != nil {
			return fmt.Errorf("failed to open target: %w", err)
		}
		defer f.Close()

		if err := a.guard.Ensure(context.Background(), f, int64(required)); err != nil {
			return err
		}

		fmt.Printf("%s available on the partition backing %s\n", humanize.IBytes(required), ensurePath)
		return nil
	},
}

func init() {
	ensureCmd.Flags().StringVar(&ensurePath, "path", "", "file or directory on the target partition")
	ensureCmd.Flags().StringVar(&ensureBytes, "bytes", "", "required free space, e.g. 100MiB")
	ensureCmd.MarkFlagRequired("path")
	ensureCmd.MarkFlagRequired("bytes")
	rootCmd.AddCommand(ensureCmd)
}
