// Package report writes the aggregation outputs: the flat transaction table
// as HXL-tagged CSV and as JSON, the keyed totals and activity counts as
// JSON, and parsed activities as line-delimited JSON.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"c19money/internal/aggregate"
	"c19money/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// WriteTransactionsCSV writes the fanned-out transaction rows as CSV with a
// two-row header: human-readable column titles followed by HXL hashtags.
func WriteTransactionsCSV(rows []models.TransactionRow, csvFile string) error {
	log.WithFields(logrus.Fields{
		"file":  csvFile,
		"count": len(rows),
	}).Info("Writing transaction rows to CSV file")

	file, err := createOutputFile(csvFile)
	if err != nil {
		return err
	}
	defer closeFile(file)

	csvWriter := csv.NewWriter(file)
	if err := csvWriter.Write(models.TransactionRowHeaders); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}
	if err := csvWriter.Write(models.TransactionRowHXLTags); err != nil {
		return fmt.Errorf("error writing HXL header: %w", err)
	}

	if err := gocsv.MarshalCSVWithoutHeaders(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	log.WithField("file", csvFile).Info("Successfully wrote CSV file")
	return nil
}

// WriteTransactionsJSON writes the fanned-out transaction rows as a JSON array.
func WriteTransactionsJSON(rows []models.TransactionRow, jsonFile string) error {
	return writeJSON(rows, jsonFile, "transaction rows")
}

// WriteValuesJSON writes the keyed running totals as a JSON array.
func WriteValuesJSON(rows []aggregate.Row, jsonFile string) error {
	return writeJSON(rows, jsonFile, "value rows")
}

// WriteActivityCountsJSON writes the distinct-activity counts as a JSON array.
func WriteActivityCountsJSON(counts []aggregate.CountRow, jsonFile string) error {
	return writeJSON(counts, jsonFile, "activity counts")
}

func writeJSON(data any, jsonFile, what string) error {
	log.WithField("file", jsonFile).Infof("Writing %s to JSON file", what)

	file, err := createOutputFile(jsonFile)
	if err != nil {
		return err
	}
	defer closeFile(file)

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("error writing JSON data: %w", err)
	}

	log.WithField("file", jsonFile).Info("Successfully wrote JSON file")
	return nil
}

func createOutputFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("error creating output directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("error creating output file: %w", err)
	}
	return file, nil
}

func closeFile(file io.Closer) {
	if err := file.Close(); err != nil {
		log.WithError(err).Warn("Failed to close file")
	}
}
