// Package models provides the data structures used throughout the application.
package models

// Narratives maps an ISO language code to a narrative text in that language.
// IATI elements like title and description may carry the same text in several
// languages; the empty key holds text with no declared language.
type Narratives map[string]string

// Org represents an organisation reference in an IATI activity or transaction.
type Org struct {
	Ref        string `json:"ref"`
	Name       string `json:"name"`
	Type       string `json:"type,omitempty"`
	ActivityID string `json:"activity_id,omitempty"`
}

// CountryAllocation is a recipient-country entry with its declared percentage.
// A zero percentage is treated as undeclared and defaults to 100 when splits
// are computed.
type CountryAllocation struct {
	Code       string  `json:"code"`
	Percentage float64 `json:"percentage"`
}

// Sector is a sector entry with its vocabulary and declared percentage.
// Vocabulary "1" is the 5-digit DAC purpose scheme, "2" the 3-digit DAC
// category scheme.
type Sector struct {
	Code       string  `json:"code"`
	Vocabulary string  `json:"vocabulary"`
	Percentage float64 `json:"percentage"`
}

// HumanitarianScope is a humanitarian-scope entry (e.g. a GLIDE number or an
// HRP code).
type HumanitarianScope struct {
	Type       string `json:"type"`
	Vocabulary string `json:"vocabulary"`
	Code       string `json:"code"`
}

// Tag is a tag entry on an activity.
type Tag struct {
	Vocabulary string `json:"vocabulary"`
	Code       string `json:"code"`
}

// Activity represents a single IATI activity with its transactions.
// The identifier uniquely identifies an activity across all input files;
// duplicates are suppressed by the aggregator (first seen wins).
type Activity struct {
	Identifier         string              `json:"identifier"`
	ReportingOrg       Org                 `json:"reporting_org"`
	SecondaryReporter  bool                `json:"secondary_reporter"`
	Humanitarian       bool                `json:"has_humanitarian_marker"`
	Title              Narratives          `json:"title"`
	Description        Narratives          `json:"description"`
	ParticipatingOrgs  map[string][]Org    `json:"participating_orgs,omitempty"`
	RecipientCountries []CountryAllocation `json:"recipient_countries"`
	RecipientRegions   []CountryAllocation `json:"recipient_regions"`
	Sectors            []Sector            `json:"sectors"`
	Tags               []Tag               `json:"tags"`
	HumanitarianScopes []HumanitarianScope `json:"humanitarian_scopes"`
	Transactions       []Transaction       `json:"transactions"`
}
