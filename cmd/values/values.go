// Package values handles the monthly totals command
package values

import (
	"path/filepath"

	"c19money/cmd/common"
	"c19money/cmd/root"
	"c19money/internal/report"

	"github.com/spf13/cobra"
)

// Cmd represents the values command
var Cmd = &cobra.Command{
	Use:   "values",
	Short: "Aggregate monthly COVID-19 funding totals",
	Long: `Aggregate COVID-19 related transactions into monthly totals keyed by
organisation, recipient country, sector, humanitarian status, and strict
COVID-19 status. Writes values.json and activity-counts.json to the output
directory.

Example:
  c19money values -d data/ -o outputs/`,
	Run: valuesFunc,
}

func valuesFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Values command called")

	aggregator := common.BuildAggregator(root.SharedFlags.DataDir, root.SharedFlags.StartMonth, root.Log)
	activities := common.LoadActivities(root.SharedFlags.DataDir, root.SharedFlags.Validate, root.Log)
	aggregator.Process(activities)

	rows := aggregator.Rows()
	root.Log.WithField("rows", len(rows)).Info("Aggregation complete")

	valuesFile := filepath.Join(root.SharedFlags.OutputDir, "values.json")
	if err := report.WriteValuesJSON(rows, valuesFile); err != nil {
		root.Log.Fatalf("Error writing values: %v", err)
	}

	countsFile := filepath.Join(root.SharedFlags.OutputDir, "activity-counts.json")
	if err := report.WriteActivityCountsJSON(aggregator.ActivityCounts(), countsFile); err != nil {
		root.Log.Fatalf("Error writing activity counts: %v", err)
	}

	root.Log.Infof("Processed %d unique IATI activities", aggregator.ActivitiesSeen())
}
