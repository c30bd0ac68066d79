// Package transactions handles the flat transaction table command
package transactions

import (
	"path/filepath"

	"c19money/cmd/common"
	"c19money/cmd/root"
	"c19money/internal/report"

	"github.com/spf13/cobra"
)

// Cmd represents the transactions command
var Cmd = &cobra.Command{
	Use:   "transactions",
	Short: "Generate the flat COVID-19 transaction table",
	Long: `Fan each COVID-19 related transaction out across its recipient-country
and sector splits, and write the resulting rows as HXL-tagged CSV and as JSON
to the output directory.

Example:
  c19money transactions -d data/ -o outputs/`,
	Run: transactionsFunc,
}

func transactionsFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Transactions command called")

	aggregator := common.BuildAggregator(root.SharedFlags.DataDir, root.SharedFlags.StartMonth, root.Log)
	activities := common.LoadActivities(root.SharedFlags.DataDir, root.SharedFlags.Validate, root.Log)
	aggregator.Process(activities)

	rows := aggregator.TransactionRows()
	root.Log.WithField("rows", len(rows)).Info("Aggregation complete")

	csvFile := filepath.Join(root.SharedFlags.OutputDir, "transactions.csv")
	if err := report.WriteTransactionsCSV(rows, csvFile); err != nil {
		root.Log.Fatalf("Error writing CSV: %v", err)
	}

	jsonFile := filepath.Join(root.SharedFlags.OutputDir, "transactions.json")
	if err := report.WriteTransactionsJSON(rows, jsonFile); err != nil {
		root.Log.Fatalf("Error writing JSON: %v", err)
	}

	root.Log.Infof("Processed %d unique IATI activities", aggregator.ActivitiesSeen())
}
