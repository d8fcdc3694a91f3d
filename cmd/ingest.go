package cmd

import (
	"github.com/spf13/cobra"

	"github.com/example/pucsync/internal/models"
	"github.com/example/pucsync/internal/output"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <vehicle-no>",
	Short: "Merge one observed fragment for a vehicle",
	Long: `Merges a partial observation into the record for a vehicle. Fields not
passed as flags are left untouched in the merged record. A record that
becomes complete is submitted immediately; otherwise it is held pending.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStack()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer s.Close()
		s.coordinator.Synchronous()

		f := models.Fragment{VehicleNo: args[0], Source: models.SourceManual}
		// Only flags the caller actually set become observed fields.
		for flag, dst := range map[string]**string{
			"mobile": &f.Mobile,
			"rate":   &f.Rate,
			"valid":  &f.ValidDate,
			"upto":   &f.UptoDate,
		} {
			if cmd.Flags().Changed(flag) {
				v, _ := cmd.Flags().GetString(flag)
				*dst = &v
			}
		}
		if f.Mobile != nil && *f.Mobile != "" && !mobilePattern.MatchString(*f.Mobile) {
			output.Error("mobile must be 10 digits")
			return errInvalidMobile
		}

		if err := s.coordinator.Ingest(f); err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("Fragment merged for %s", args[0])
		return nil
	},
}

func init() {
	addRecordFlags(ingestCmd.Flags())
	rootCmd.AddCommand(ingestCmd)
}
