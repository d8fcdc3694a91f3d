package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/example/pucsync/internal/ingest"
	"github.com/example/pucsync/internal/output"
)

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List records held for a missing contact number",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStack()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer s.Close()

		records, err := s.coordinator.GetPending()
		if err != nil {
			output.Error("%v", err)
			return err
		}

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return output.JSON(records)
		}
		if len(records) == 0 {
			output.Info("No pending records")
			return nil
		}
		for _, p := range records {
			output.Info("%s", output.FormatPendingRecord(p))
		}
		return nil
	},
}

var pendingCompleteCmd = &cobra.Command{
	Use:   "complete <vehicle-no> <mobile>",
	Short: "Supply the missing contact number and submit the record",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		vehicle, mobile := args[0], args[1]
		if !mobilePattern.MatchString(mobile) {
			output.Error("mobile must be 10 digits")
			return errInvalidMobile
		}

		s, err := openStack()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer s.Close()
		s.coordinator.Synchronous()

		if err := s.coordinator.CompletePending(vehicle, mobile); err != nil {
			if errors.Is(err, ingest.ErrNotFound) {
				output.Error("no pending record for %s", vehicle)
			} else {
				output.Error("%v", err)
			}
			return err
		}
		output.Success("Completed %s", vehicle)
		return nil
	},
}

func init() {
	pendingCmd.AddCommand(pendingCompleteCmd)
	rootCmd.AddCommand(pendingCmd)
}
