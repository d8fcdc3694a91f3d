package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var version string

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "pucsync",
	Short: "Vehicle certificate capture and sync",
	Long: `pucsync - Captures partial PUC certificate observations, merges them per
vehicle, holds records missing a contact number, and syncs completed
records to the backend with durable retry.`,
}

// Execute runs the root command
func Execute() {
	if version != "" {
		rootCmd.Version = version
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
}
