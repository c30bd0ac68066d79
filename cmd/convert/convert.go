// Package convert handles the line-delimited JSON export command
package convert

import (
	"path/filepath"

	"c19money/cmd/common"
	"c19money/cmd/root"
	"c19money/internal/report"

	"github.com/spf13/cobra"
)

// Cmd represents the convert command
var Cmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert IATI XML activities to simplified line-delimited JSON",
	Long: `Convert IATI activity XML files to simplified line-delimited JSON with
USD equivalents added to every transaction value. One JSON object is written
per line; duplicate activities are written once.

Example:
  c19money convert -d data/ -o outputs/`,
	Run: convertFunc,
}

func convertFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Convert command called")

	_, converter := common.BuildConverter(root.SharedFlags.DataDir, root.Log)
	activities := common.LoadActivities(root.SharedFlags.DataDir, root.SharedFlags.Validate, root.Log)

	outputFile := filepath.Join(root.SharedFlags.OutputDir, "activities.lines.json")
	exporter := report.NewExporter(converter)
	written, err := exporter.ExportToFile(activities, outputFile)
	if err != nil {
		root.Log.Fatalf("Error exporting activities: %v", err)
	}

	root.Log.Infof("Wrote %d unique IATI activities to %s", written, outputFile)
}
