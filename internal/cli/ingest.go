package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <batch.json>",
	Short: "Apply a scraped batch file to the store",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("a batch file path is required")
		}
		return getApp().Ingest(cmd.Context(), args[0])
	},
}
