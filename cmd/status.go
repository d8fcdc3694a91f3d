package cmd

import (
	"github.com/spf13/cobra"

	"github.com/example/pucsync/internal/output"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync counters, retry queue depth, and latest snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStack()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer s.Close()

		status, err := s.coordinator.Status()
		if err != nil {
			output.Error("%v", err)
			return err
		}

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return output.JSON(status)
		}

		output.Info("%s", output.FormatStatus(status))

		if saved, err := s.coordinator.LatestSaved(); err == nil && saved != nil {
			output.Info("\nLast saved:   %s", output.FormatSubmission(*saved))
		}
		if scraped, err := s.coordinator.LatestScraped(); err == nil && scraped != nil {
			output.Info("Last scraped: %s", scraped.VehicleNo)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
