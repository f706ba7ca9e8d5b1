// Command bookmarks serves and queries bookmark collections.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:           "bookmarks",
	Short:         "Query and serve bookmark collections",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "directory containing config.yaml")
	rootCmd.AddCommand(serveCmd, migrateCmd, queryCmd, importCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
