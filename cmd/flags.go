package cmd

import (
	"github.com/spf13/pflag"
)

// addRecordFlags registers the shared record field flags used by the
// ingest and save commands.
func addRecordFlags(fs *pflag.FlagSet) {
	fs.String("mobile", "", "Contact number (10 digits)")
	fs.String("rate", "", "Certificate rate, e.g. Rs.450")
	fs.String("valid", "", "Valid-from date (DD/MM/YYYY)")
	fs.String("upto", "", "Valid-upto date (DD/MM/YYYY)")
}
