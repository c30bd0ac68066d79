package report

import (
	"encoding/json"
	"fmt"
	"io"

	"c19money/internal/currencyutils"
	"c19money/internal/models"

	"github.com/shopspring/decimal"
)

// Vocabulary filters for the simplified activity export. Anything outside
// these lists is reporter-specific noise.
var (
	exportSectorVocabularies = []string{"1", "2", "10"}
	exportTagVocabularies    = []string{"2", "3", "99"}
	exportScopeVocabularies  = []string{"1-2", "2-1"}
)

// Exporter writes activities as simplified line-delimited JSON, one object
// per line, with USD equivalents added to every transaction value. Duplicate
// activity identifiers across files are written once.
type Exporter struct {
	converter *currencyutils.Converter
	seen      map[string]struct{}
}

// NewExporter creates an exporter that converts values with the given
// converter.
func NewExporter(converter *currencyutils.Converter) *Exporter {
	return &Exporter{
		converter: converter,
		seen:      make(map[string]struct{}),
	}
}

// Export writes each previously unseen activity to w as one JSON line and
// returns how many were written.
func (e *Exporter) Export(w io.Writer, activities []models.Activity) (int, error) {
	encoder := json.NewEncoder(w)
	written := 0
	for i := range activities {
		activity := &activities[i]
		if _, ok := e.seen[activity.Identifier]; ok {
			continue
		}
		e.seen[activity.Identifier] = struct{}{}

		if err := encoder.Encode(e.exportActivity(activity)); err != nil {
			return written, fmt.Errorf("error writing activity %s: %w", activity.Identifier, err)
		}
		written++
	}
	return written, nil
}

// ExportToFile appends nothing: it creates (or truncates) the file and writes
// all previously unseen activities to it.
func (e *Exporter) ExportToFile(activities []models.Activity, jsonFile string) (int, error) {
	file, err := createOutputFile(jsonFile)
	if err != nil {
		return 0, err
	}
	defer closeFile(file)
	return e.Export(file, activities)
}

type exportOrg struct {
	Ref        string `json:"ref"`
	Name       string `json:"name"`
	Type       string `json:"type,omitempty"`
	ActivityID string `json:"activity_id,omitempty"`
}

type exportAllocation struct {
	Code       string  `json:"code"`
	Percentage float64 `json:"percentage"`
}

type exportCoded struct {
	Code string `json:"code"`
}

type exportTransaction struct {
	Ref                string                        `json:"ref,omitempty"`
	Humanitarian       *bool                         `json:"has_humanitarian_marker,omitempty"`
	Date               string                        `json:"date"`
	ValueOrig          decimal.Decimal               `json:"value_orig"`
	CurrencyOrig       string                        `json:"currency_orig"`
	ConversionDate     string                        `json:"conversion_date"`
	ValueUSD           int64                         `json:"value_usd"`
	RecipientCountries []exportAllocation            `json:"recipient_countries,omitempty"`
	Sectors            map[string][]exportAllocation `json:"sectors,omitempty"`
	ProviderOrg        *exportOrg                    `json:"provider_org,omitempty"`
	ReceiverOrg        *exportOrg                    `json:"receiver_org,omitempty"`
}

type exportActivity struct {
	Identifier         string                         `json:"identifier"`
	ReportingOrg       exportOrg                      `json:"reporting_org"`
	ParticipatingOrgs  map[string][]exportOrg         `json:"participating_orgs,omitempty"`
	Humanitarian       bool                           `json:"has_humanitarian_marker"`
	Title              models.Narratives              `json:"title,omitempty"`
	Description        models.Narratives              `json:"description,omitempty"`
	RecipientCountries []exportAllocation             `json:"recipient_countries"`
	RecipientRegions   []exportAllocation             `json:"recipient_regions"`
	Sectors            map[string][]exportAllocation  `json:"sectors,omitempty"`
	Tags               map[string][]exportCoded       `json:"tags,omitempty"`
	HumanitarianScopes map[string][]exportCoded       `json:"humanitarian_scopes,omitempty"`
	Transactions       map[string][]exportTransaction `json:"transactions"`
}

func (e *Exporter) exportActivity(activity *models.Activity) exportActivity {
	out := exportActivity{
		Identifier:         activity.Identifier,
		ReportingOrg:       toExportOrg(&activity.ReportingOrg, false),
		Humanitarian:       activity.Humanitarian,
		Title:              activity.Title,
		Description:        activity.Description,
		RecipientCountries: exportAllocations(activity.RecipientCountries),
		RecipientRegions:   exportAllocations(activity.RecipientRegions),
		Sectors:            exportSectors(activity.Sectors),
		Transactions:       e.exportTransactions(activity.Transactions),
	}

	for role, orgs := range activity.ParticipatingOrgs {
		for i := range orgs {
			if out.ParticipatingOrgs == nil {
				out.ParticipatingOrgs = make(map[string][]exportOrg)
			}
			out.ParticipatingOrgs[role] = append(out.ParticipatingOrgs[role], toExportOrg(&orgs[i], false))
		}
	}
	for _, tag := range activity.Tags {
		if contains(exportTagVocabularies, tag.Vocabulary) {
			if out.Tags == nil {
				out.Tags = make(map[string][]exportCoded)
			}
			out.Tags[tag.Vocabulary] = append(out.Tags[tag.Vocabulary], exportCoded{Code: tag.Code})
		}
	}
	for _, scope := range activity.HumanitarianScopes {
		if contains(exportScopeVocabularies, scope.Vocabulary) {
			if out.HumanitarianScopes == nil {
				out.HumanitarianScopes = make(map[string][]exportCoded)
			}
			out.HumanitarianScopes[scope.Vocabulary] = append(out.HumanitarianScopes[scope.Vocabulary], exportCoded{Code: scope.Code})
		}
	}
	return out
}

// exportTransactions groups a transaction list by type code, keeping only the
// aggregatable types and dropping zero or missing values.
func (e *Exporter) exportTransactions(transactions []models.Transaction) map[string][]exportTransaction {
	grouped := make(map[string][]exportTransaction)
	types := []string{
		models.TypeIncomingFunds,
		models.TypeOutgoingCommitment,
		models.TypeDisbursement,
		models.TypeExpenditure,
		models.TypeIncomingCommitment,
	}
	for i := range transactions {
		transaction := &transactions[i]
		if !contains(types, transaction.Type) {
			continue
		}
		if !transaction.HasValue() || transaction.Value.Decimal.IsZero() {
			continue
		}
		grouped[transaction.Type] = append(grouped[transaction.Type], e.exportTransaction(transaction))
	}
	return grouped
}

func (e *Exporter) exportTransaction(transaction *models.Transaction) exportTransaction {
	out := exportTransaction{
		Ref:                transaction.Ref,
		Humanitarian:       transaction.Humanitarian,
		Date:               transaction.Date,
		ValueOrig:          transaction.Value.Decimal,
		CurrencyOrig:       transaction.Currency,
		ConversionDate:     transaction.ValueDate,
		ValueUSD:           e.converter.ToUSD(transaction.Value.Decimal, transaction.Currency, transaction.ValueDate),
		RecipientCountries: exportAllocations(transaction.RecipientCountries),
		Sectors:            exportSectors(transaction.Sectors),
	}
	if transaction.ProviderOrg != nil {
		org := toExportOrg(transaction.ProviderOrg, true)
		out.ProviderOrg = &org
	}
	if transaction.ReceiverOrg != nil {
		org := toExportOrg(transaction.ReceiverOrg, true)
		out.ReceiverOrg = &org
	}
	return out
}

func toExportOrg(org *models.Org, activityID bool) exportOrg {
	out := exportOrg{Ref: org.Ref, Name: org.Name, Type: org.Type}
	if activityID {
		out.ActivityID = org.ActivityID
	}
	return out
}

func exportAllocations(allocations []models.CountryAllocation) []exportAllocation {
	out := make([]exportAllocation, 0, len(allocations))
	for _, allocation := range allocations {
		out = append(out, exportAllocation{
			Code:       allocation.Code,
			Percentage: percentageOrFull(allocation.Percentage),
		})
	}
	return out
}

func exportSectors(sectors []models.Sector) map[string][]exportAllocation {
	var grouped map[string][]exportAllocation
	for _, sector := range sectors {
		if !contains(exportSectorVocabularies, sector.Vocabulary) {
			continue
		}
		if grouped == nil {
			grouped = make(map[string][]exportAllocation)
		}
		grouped[sector.Vocabulary] = append(grouped[sector.Vocabulary], exportAllocation{
			Code:       sector.Code,
			Percentage: percentageOrFull(sector.Percentage),
		})
	}
	return grouped
}

// An undeclared or zero percentage means the whole amount.
func percentageOrFull(percentage float64) float64 {
	if percentage == 0 {
		return 100.0
	}
	return percentage
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
