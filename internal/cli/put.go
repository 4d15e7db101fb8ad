package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var putDest string

var putCmd = &cobra.Command{
	Use:   "put [source]",
	Short: "Store a file with a space guarantee",
	Long: `Put streams the source file (or stdin when source is "-") into --dest,
guaranteeing free space on the destination partition first and recording
the download in the database.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		var src io.Reader
		var sizeHint int64
		if args[0] == "-" {
			src = os.Stdin
		} else {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open source: %w", err)
			}
			defer f.Close()
			if info, err := f.Stat(); err == nil {
				sizeHint = info.Size()
			}
			src = f
		}

		rec, err := a.files.Put(context.Background(), putDest, sizeHint, src)
		if err != nil {
			return err
		}

		fmt.Printf("stored %s (%d bytes, record %d)\n", rec.Path, rec.Size, rec.ID)
		return nil
	},
}

func init() {
	putCmd.Flags().StringVar(&putDest, "dest", "", "destination path inside the store")
	putCmd.MarkFlagRequired("dest")
	rootCmd.AddCommand(putCmd)
}
