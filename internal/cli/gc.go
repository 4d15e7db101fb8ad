package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var gcBytes string

var gcCmd = &cobra.Command{
	Use:   "gc",
	Short: "Evict old cache files to free the given amount of space",
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := humanize.ParseBytes(gcBytes)
		if err != nil {
			return fmt.Errorf("invalid --bytes value %q: %w", gcBytes, err)
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		a.evictor.FreeBytes(int64(target))
		return nil
	},
}

func init() {
	gcCmd.Flags().StringVar(&gcBytes, "bytes", "", "space to free, e.g. 512MiB")
	gcCmd.MarkFlagRequired("bytes")
	rootCmd.AddCommand(gcCmd)
}
