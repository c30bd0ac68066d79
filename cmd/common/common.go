// Package common contains shared functionality for command handlers
package common

import (
	"path/filepath"

	"c19money/internal/aggregate"
	"c19money/internal/currencyutils"
	"c19money/internal/dateutils"
	"c19money/internal/fileutils"
	"c19money/internal/iatixml"
	"c19money/internal/models"
	"c19money/internal/refdata"
	"c19money/internal/store"

	"github.com/sirupsen/logrus"
)

// OrgRegistryFile is the curated organisation-name registry inside the data
// directory.
const OrgRegistryFile = "orgs.yaml"

// BuildConverter loads reference data from dataDir and returns the resolver
// together with a currency converter backed by its fallback rates.
func BuildConverter(dataDir string, log *logrus.Logger) (*refdata.Resolver, *currencyutils.Converter) {
	resolver := refdata.NewResolver(dataDir)
	if err := resolver.Load(); err != nil {
		log.Fatalf("Failed to load reference data: %v", err)
	}

	orgStore := store.NewOrgStore(filepath.Join(dataDir, OrgRegistryFile))
	names, err := orgStore.LoadOrgNames()
	if err != nil {
		log.Fatalf("Failed to load organisation registry: %v", err)
	}
	resolver.SeedOrgs(names)

	return resolver, currencyutils.NewConverter(resolver.Rates())
}

// BuildAggregator assembles a ready-to-run aggregator. An empty startMonth
// keeps the default window.
func BuildAggregator(dataDir, startMonth string, log *logrus.Logger) *aggregate.Aggregator {
	resolver, converter := BuildConverter(dataDir, log)
	aggregator := aggregate.New(resolver, converter)
	if startMonth != "" {
		aggregator.SetWindow(startMonth, dateutils.CurrentMonth())
	}
	return aggregator
}

// LoadActivities parses every IATI XML file in dataDir, in name order.
func LoadActivities(dataDir string, validate bool, log *logrus.Logger) []models.Activity {
	parser := iatixml.NewParser(log)

	files, err := fileutils.ListFilesWithExtension(dataDir, ".xml")
	if err != nil {
		log.Fatalf("Failed to list input files: %v", err)
	}
	if len(files) == 0 {
		log.Warnf("No XML files found in %s", dataDir)
		return nil
	}

	var activities []models.Activity
	for _, file := range files {
		if validate {
			ok, err := parser.ValidateFormat(file)
			if err != nil {
				log.Fatalf("Error validating %s: %v", file, err)
			}
			if !ok {
				log.WithField("file", file).Warn("Skipping non-IATI XML file")
				continue
			}
		}

		parsed, err := parser.ParseFile(file)
		if err != nil {
			log.Fatalf("Error parsing %s: %v", file, err)
		}
		activities = append(activities, parsed...)
	}

	log.WithFields(logrus.Fields{
		"files":      len(files),
		"activities": len(activities),
	}).Info("Loaded IATI activities")
	return activities
}
