// Package root contains the root command for the application
package root

import (
	"c19money/internal/aggregate"
	"c19money/internal/config"
	"c19money/internal/currencyutils"
	"c19money/internal/fileutils"
	"c19money/internal/refdata"
	"c19money/internal/report"
	"c19money/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	DataDir    string
	OutputDir  string
	StartMonth string
	Validate   bool
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "c19money",
		Short: "A CLI tool to track COVID-19 development and humanitarian funding in IATI.",
		Long: `c19money aggregates COVID-19 related development and humanitarian
transactions published to IATI. It classifies activities and transactions as
strictly or loosely COVID-19 related, splits money across recipient countries
and sectors, estimates net new money, and writes monthly totals as CSV and
JSON.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to c19money!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize and configure logging
			config.LoadEnv()
			Log = config.ConfigureLogging()

			// Set the configured logger for all packages
			aggregate.SetLogger(Log)
			currencyutils.SetLogger(Log)
			fileutils.SetLogger(Log)
			refdata.SetLogger(Log)
			report.SetLogger(Log)
			store.SetLogger(Log)
		},
	}

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.DataDir, "data", "d", "data",
		"Directory containing IATI XML files and reference data")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.OutputDir, "output", "o", "outputs",
		"Directory for generated output files")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.StartMonth, "start-month", "s", "",
		"Earliest year-month to aggregate (YYYY-MM)")
	Cmd.PersistentFlags().BoolVarP(&SharedFlags.Validate, "validate", "v", false,
		"Validate file formats before parsing")
}
