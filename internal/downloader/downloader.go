// Package downloader fetches COVID-19 related IATI activity XML from the
// D-Portal query API, paging through results and writing one XML file per
// page.
package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultURL is the D-Portal query endpoint.
const DefaultURL = "http://d-portal.org/dquery"

// DefaultLimit is the maximum number of activities per downloaded file.
const DefaultLimit = 1000

// dportalQuery selects activities with any COVID-19 signal: the GLIDE or HRP
// humanitarian scopes, the COVID-19 publisher tag, the DAC 12264 sector, or
// COVID/CORONAVIRUS in a title, description or transaction description.
// Secondary reporters are excluded at the source. The query language is
// documented at https://d-portal.org/dquery/
const dportalQuery = `
SELECT * FROM xson WHERE root = '/iati-activities/iati-activity' AND
    (xson->>'/reporting-org@secondary-reporter'='0' OR xson->>'/reporting-org@secondary-reporter'='' OR
    xson->>'/reporting-org@secondary-reporter' IS NULL) AND aid IN (
    SELECT aid FROM xson WHERE
    (
        root='/iati-activities/iati-activity/humanitarian-scope' AND
        xson->>'@type'='1' AND
        xson->>'@vocabulary'='1-2' AND
        xson->>'@code'='EP-2020-000012-001'
    ) OR (
        root='/iati-activities/iati-activity/humanitarian-scope' AND
        xson->>'@type'='2' AND
        xson->>'@vocabulary'='2-1' AND
        xson->>'@code'='HCOVD20'
    ) OR (
        root='/iati-activities/iati-activity/tag' AND
        xson->>'@vocabulary'='99' AND
        xson->>'@vocabulary-uri' IS NULL AND
        UPPER(xson->>'@code')='COVID-19'
    ) OR (
        root='/iati-activities/iati-activity/title/narrative' AND
        to_tsvector('simple', xson->>'') @@ to_tsquery('simple','COVID | CORONAVIRUS')
    ) OR (
        root='/iati-activities/iati-activity/description/narrative' AND
        to_tsvector('simple', xson->>'') @@ to_tsquery('simple','COVID | CORONAVIRUS')
    ) OR (
        root='/iati-activities/iati-activity/transaction/description/narrative' AND
        to_tsvector('simple', xson->>'') @@ to_tsquery('simple','COVID | CORONAVIRUS')
    ) OR (
        root='/iati-activities/iati-activity/sector' AND
        xson->>'@code'='12264' AND
        (xson->>'@vocabulary'='1' OR xson->>'@vocabulary'='' OR xson->>'@vocabulary' IS NULL)
    ) OR (
        root='/iati-activities/iati-activity/transaction/sector' AND
        xson->>'@code'='12264' AND
        (xson->>'@vocabulary'='1' OR xson->>'@vocabulary'='' OR xson->>'@vocabulary' IS NULL)
    ) GROUP BY aid ORDER BY max(xson->>'@iati-activities:generated-datetime'), max(xson->>'@last-updated-datetime'), aid LIMIT %d OFFSET %d
)
`

// Downloader pages COVID-19 activities out of D-Portal.
type Downloader struct {
	client  *http.Client
	baseURL string
	limit   int
	log     *logrus.Logger
}

// New creates a downloader against the given D-Portal endpoint. A zero limit
// falls back to DefaultLimit and an empty URL to DefaultURL.
func New(baseURL string, limit int, logger *logrus.Logger) *Downloader {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Downloader{
		client:  &http.Client{Timeout: 5 * time.Minute},
		baseURL: baseURL,
		limit:   limit,
		log:     logger,
	}
}

// SetClient replaces the HTTP client, mainly for tests.
func (d *Downloader) SetClient(client *http.Client) {
	if client != nil {
		d.client = client
	}
}

// Download pages through the query results and writes each non-empty page to
// outputDir as iati-activities-NNN.xml. It stops at the first page without an
// activity and returns how many files were written.
func (d *Downloader) Download(ctx context.Context, outputDir string) (int, error) {
	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return 0, fmt.Errorf("error creating output directory: %w", err)
	}

	files := 0
	for offset := 0; ; offset += d.limit {
		body, err := d.fetchPage(ctx, offset)
		if err != nil {
			return files, err
		}
		if !strings.Contains(body, "<iati-activity") {
			d.log.WithField("files", files).Info("Download complete")
			return files, nil
		}

		files++
		filename := filepath.Join(outputDir, fmt.Sprintf("iati-activities-%03d.xml", files))
		if err := os.WriteFile(filename, []byte(body), 0600); err != nil {
			return files - 1, fmt.Errorf("error writing %s: %w", filename, err)
		}
		d.log.WithFields(logrus.Fields{
			"file":   filename,
			"offset": offset,
		}).Info("Downloaded activity page")
	}
}

func (d *Downloader) fetchPage(ctx context.Context, offset int) (string, error) {
	query := fmt.Sprintf(dportalQuery, d.limit, offset)
	pageURL := d.baseURL + "?form=xml&sql=" + url.QueryEscape(query)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("error building request: %w", err)
	}

	response, err := d.client.Do(request)
	if err != nil {
		return "", fmt.Errorf("error querying D-Portal: %w", err)
	}
	defer func() {
		if err := response.Body.Close(); err != nil {
			d.log.WithError(err).Warn("Failed to close response body")
		}
	}()

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("D-Portal returned status %d", response.StatusCode)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}
	return string(body), nil
}
