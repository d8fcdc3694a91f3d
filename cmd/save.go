package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/example/pucsync/internal/models"
	"github.com/example/pucsync/internal/output"
)

var errInvalidMobile = errors.New("invalid mobile number")

var saveCmd = &cobra.Command{
	Use:   "save <vehicle-no>",
	Short: "Save a record: submit it, or hold it pending with --pending",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStack()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer s.Close()
		s.coordinator.Synchronous()

		m := models.MergedRecord{VehicleNo: args[0]}
		// Prefill from the latest scraped snapshot when it is the same
		// vehicle; explicit flags override.
		if scraped, err := s.coordinator.LatestScraped(); err == nil &&
			scraped != nil && scraped.VehicleNo == m.VehicleNo {
			m = *scraped
		}
		for flag, dst := range map[string]*string{
			"mobile": &m.Mobile,
			"rate":   &m.Rate,
			"valid":  &m.ValidDate,
			"upto":   &m.UptoDate,
		} {
			if cmd.Flags().Changed(flag) {
				*dst, _ = cmd.Flags().GetString(flag)
			}
		}
		pending, _ := cmd.Flags().GetBool("pending")

		if pending {
			if err := s.coordinator.SavePending(m); err != nil {
				output.Error("%v", err)
				return err
			}
			output.Success("Held %s pending", m.VehicleNo)
			return nil
		}

		if !mobilePattern.MatchString(m.Mobile) {
			output.Error("mobile must be 10 digits (use --pending to hold without one)")
			return errInvalidMobile
		}
		if err := s.coordinator.SaveDirect(m); err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("Saved %s", m.VehicleNo)
		return nil
	},
	Args: cobra.ExactArgs(1),
}

func init() {
	addRecordFlags(saveCmd.Flags())
	saveCmd.Flags().Bool("pending", false, "Hold the record instead of submitting")
	rootCmd.AddCommand(saveCmd)
}
