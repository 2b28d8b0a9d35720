package commands

import (
	"context"
	"fmt"
	"os"
	"probate-records/lib/records"
	"probate-records/lib/scrapers/probate"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(extractCmd)
}

// extractRecord builds the record of a saved case detail page.
func extractRecord(ctx context.Context, path string) (records.CaseRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return records.CaseRecord{}, err
	}
	defer f.Close()

	reader, err := probate.NewSectionReader(f)
	if err != nil {
		return records.CaseRecord{}, err
	}
	c := reader.Case(ctx)
	return records.NewAggregator().Add(c.Status, c.Decedent, c.Fiduciary, c.CaseInformation), nil
}

var extractCmd = &cobra.Command{
	Use:   "extract <case.html>",
	Short: "Prints the record extracted from a saved case detail page.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		record, err := extractRecord(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to extract %s: %w", args[0], err)
		}
		fieldsTable(record).Render()
		return nil
	},
}
