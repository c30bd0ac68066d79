// Package download handles fetching IATI activity XML from D-Portal
package download

import (
	"context"

	"c19money/cmd/root"
	"c19money/internal/config"
	"c19money/internal/downloader"

	"github.com/spf13/cobra"
)

// Cmd represents the download command
var Cmd = &cobra.Command{
	Use:   "download",
	Short: "Download COVID-19 related IATI activities from D-Portal",
	Long: `Download IATI activity XML for activities with a COVID-19 signal from
the D-Portal query API. Results are paged; each page is written to the data
directory as iati-activities-NNN.xml, ready for the values, transactions, and
convert commands.

Example:
  c19money download -d data/`,
	Run: downloadFunc,
}

func downloadFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Download command called")

	cfg, err := config.InitializeConfig()
	if err != nil {
		root.Log.Fatalf("Error loading configuration: %v", err)
	}

	d := downloader.New(cfg.DPortal.URL, cfg.DPortal.Limit, root.Log)
	files, err := d.Download(context.Background(), root.SharedFlags.DataDir)
	if err != nil {
		root.Log.Fatalf("Error downloading activities: %v", err)
	}

	root.Log.Infof("Downloaded %d activity files to %s", files, root.SharedFlags.DataDir)
}
