package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "download-janitor",
	Short: "Disk space guarantees and orphan cleanup for a download store",
	Long: `download-janitor keeps a download store healthy: it guarantees free
space on the target partition before a write, evicts old cache files when
the cache partition runs short, and reconciles the download database
against what actually exists on disk.

Commands:
  serve       Run periodic reconciliation and temp cleanup
  reconcile   Run one orphan reconciliation pass
  gc          Evict old cache files to free the given amount of space
  ensure      Check that the given free space can be guaranteed for a path
  put         Store a file with a space guarantee`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "path to configuration file")
}
