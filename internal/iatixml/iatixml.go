// Package iatixml parses IATI activity XML files into the internal activity
// model. It understands the subset of the IATI 2.x activity standard needed
// for aggregation: identifiers, reporting and participating orgs, narratives,
// recipient countries/regions, sectors, tags, humanitarian scopes and
// transactions.
package iatixml

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"

	"c19money/internal/currencyutils"
	"c19money/internal/fileutils"
	"c19money/internal/models"

	"github.com/sirupsen/logrus"
	"gopkg.in/xmlpath.v2"
)

// Parser reads IATI activity XML files.
type Parser struct {
	log *logrus.Logger
}

// NewParser creates a new IATI XML parser.
func NewParser(logger *logrus.Logger) *Parser {
	if logger == nil {
		logger = logrus.New()
	}
	return &Parser{log: logger}
}

// SetLogger sets a custom logger for the parser
func (p *Parser) SetLogger(logger *logrus.Logger) {
	if logger != nil {
		p.log = logger
	}
}

// ValidateFormat checks if a file is an IATI activities XML document.
func (p *Parser) ValidateFormat(filePath string) (bool, error) {
	xmlFile, err := os.Open(filePath)
	if err != nil {
		return false, fmt.Errorf("error opening file: %w", err)
	}
	defer func() {
		if err := xmlFile.Close(); err != nil {
			p.log.WithError(err).Warn("Failed to close file")
		}
	}()

	root, err := xmlpath.Parse(xmlFile)
	if err != nil {
		p.log.WithField("file", filePath).Info("File is not valid XML")
		return false, nil
	}

	path := xmlpath.MustCompile("/iati-activities/iati-activity")
	if iter := path.Iter(root); !iter.Next() {
		p.log.WithField("file", filePath).Info("File contains no IATI activities")
		return false, nil
	}
	return true, nil
}

// ParseFile parses a single IATI activities XML file.
func (p *Parser) ParseFile(filePath string) ([]models.Activity, error) {
	p.log.WithField("file", filePath).Info("Parsing IATI activities file")

	data, err := fileutils.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	activities, err := p.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filePath, err)
	}

	p.log.WithFields(logrus.Fields{
		"file":  filePath,
		"count": len(activities),
	}).Info("Parsed IATI activities")
	return activities, nil
}

// Parse parses IATI activities XML from a byte slice.
func (p *Parser) Parse(data []byte) ([]models.Activity, error) {
	var document iatiActivities
	if err := xml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("failed to unmarshal IATI XML: %w", err)
	}

	activities := make([]models.Activity, 0, len(document.Activities))
	for i := range document.Activities {
		activities = append(activities, document.Activities[i].toModel())
	}
	return activities, nil
}

// XML document mapping. Attribute and element names follow the IATI activity
// standard; only the fields the aggregation needs are mapped.

type iatiActivities struct {
	XMLName    xml.Name       `xml:"iati-activities"`
	Activities []iatiActivity `xml:"iati-activity"`
}

type iatiActivity struct {
	DefaultCurrency    string            `xml:"default-currency,attr"`
	Humanitarian       string            `xml:"humanitarian,attr"`
	Identifier         string            `xml:"iati-identifier"`
	ReportingOrg       iatiOrg           `xml:"reporting-org"`
	Title              narrativeBlock    `xml:"title"`
	Descriptions       []narrativeBlock  `xml:"description"`
	ParticipatingOrgs  []iatiOrg         `xml:"participating-org"`
	RecipientCountries []codedAllocation `xml:"recipient-country"`
	RecipientRegions   []codedAllocation `xml:"recipient-region"`
	Sectors            []iatiSector      `xml:"sector"`
	Tags               []iatiTag         `xml:"tag"`
	HumanitarianScopes []iatiScope       `xml:"humanitarian-scope"`
	Transactions       []iatiTransaction `xml:"transaction"`
}

type iatiOrg struct {
	Ref               string      `xml:"ref,attr"`
	Type              string      `xml:"type,attr"`
	Role              string      `xml:"role,attr"`
	SecondaryReporter string      `xml:"secondary-reporter,attr"`
	ProviderActivity  string      `xml:"provider-activity-id,attr"`
	ReceiverActivity  string      `xml:"receiver-activity-id,attr"`
	Narratives        []narrative `xml:"narrative"`
}

type narrativeBlock struct {
	Narratives []narrative `xml:"narrative"`
}

type narrative struct {
	Lang string `xml:"http://www.w3.org/XML/1998/namespace lang,attr"`
	Text string `xml:",chardata"`
}

type codedAllocation struct {
	Code       string `xml:"code,attr"`
	Percentage string `xml:"percentage,attr"`
}

type iatiSector struct {
	Code       string `xml:"code,attr"`
	Vocabulary string `xml:"vocabulary,attr"`
	Percentage string `xml:"percentage,attr"`
}

type iatiTag struct {
	Vocabulary string `xml:"vocabulary,attr"`
	Code       string `xml:"code,attr"`
}

type iatiScope struct {
	Type       string `xml:"type,attr"`
	Vocabulary string `xml:"vocabulary,attr"`
	Code       string `xml:"code,attr"`
}

type iatiTransaction struct {
	Ref                string            `xml:"ref,attr"`
	Humanitarian       string            `xml:"humanitarian,attr"`
	Type               codeAttr          `xml:"transaction-type"`
	Date               dateAttr          `xml:"transaction-date"`
	Value              *iatiValue        `xml:"value"`
	Description        *narrativeBlock   `xml:"description"`
	ProviderOrg        *iatiOrg          `xml:"provider-org"`
	ReceiverOrg        *iatiOrg          `xml:"receiver-org"`
	RecipientCountries []codedAllocation `xml:"recipient-country"`
	Sectors            []iatiSector      `xml:"sector"`
}

type codeAttr struct {
	Code string `xml:"code,attr"`
}

type dateAttr struct {
	ISODate string `xml:"iso-date,attr"`
}

type iatiValue struct {
	Currency  string `xml:"currency,attr"`
	ValueDate string `xml:"value-date,attr"`
	Amount    string `xml:",chardata"`
}

func (a *iatiActivity) toModel() models.Activity {
	activity := models.Activity{
		Identifier:         strings.TrimSpace(a.Identifier),
		ReportingOrg:       a.ReportingOrg.toModel(),
		SecondaryReporter:  parseBool(a.ReportingOrg.SecondaryReporter),
		Humanitarian:       parseBool(a.Humanitarian),
		Title:              a.Title.toNarratives(),
		Description:        mergeNarratives(a.Descriptions),
		RecipientCountries: toAllocations(a.RecipientCountries),
		RecipientRegions:   toAllocations(a.RecipientRegions),
		Sectors:            toSectors(a.Sectors),
	}

	for _, tag := range a.Tags {
		activity.Tags = append(activity.Tags, models.Tag{Vocabulary: tag.Vocabulary, Code: tag.Code})
	}
	for _, scope := range a.HumanitarianScopes {
		activity.HumanitarianScopes = append(activity.HumanitarianScopes, models.HumanitarianScope{
			Type:       scope.Type,
			Vocabulary: scope.Vocabulary,
			Code:       scope.Code,
		})
	}
	for _, org := range a.ParticipatingOrgs {
		if activity.ParticipatingOrgs == nil {
			activity.ParticipatingOrgs = make(map[string][]models.Org)
		}
		activity.ParticipatingOrgs[org.Role] = append(activity.ParticipatingOrgs[org.Role], org.toModel())
	}

	for i := range a.Transactions {
		activity.Transactions = append(activity.Transactions, a.Transactions[i].toModel(a.DefaultCurrency))
	}
	return activity
}

func (t *iatiTransaction) toModel(defaultCurrency string) models.Transaction {
	transaction := models.Transaction{
		Ref:                t.Ref,
		Type:               t.Type.Code,
		Date:               strings.TrimSpace(t.Date.ISODate),
		RecipientCountries: toAllocations(t.RecipientCountries),
		Sectors:            toSectors(t.Sectors),
	}

	// An explicit humanitarian attribute becomes an override; its absence
	// lets the activity's marker apply.
	if t.Humanitarian != "" {
		humanitarian := parseBool(t.Humanitarian)
		transaction.Humanitarian = &humanitarian
	}

	if t.Value != nil {
		if amount, ok := currencyutils.ParseAmount(t.Value.Amount); ok {
			transaction.Value.Decimal = amount
			transaction.Value.Valid = true
		}
		transaction.Currency = t.Value.Currency
		transaction.ValueDate = strings.TrimSpace(t.Value.ValueDate)
	}
	if transaction.Currency == "" {
		transaction.Currency = defaultCurrency
	}
	if transaction.Date == "" {
		transaction.Date = transaction.ValueDate
	}
	if transaction.ValueDate == "" {
		transaction.ValueDate = transaction.Date
	}

	if t.Description != nil {
		transaction.Description = t.Description.toNarratives()
	}
	if t.ProviderOrg != nil {
		org := t.ProviderOrg.toModel()
		org.ActivityID = t.ProviderOrg.ProviderActivity
		transaction.ProviderOrg = &org
	}
	if t.ReceiverOrg != nil {
		org := t.ReceiverOrg.toModel()
		org.ActivityID = t.ReceiverOrg.ReceiverActivity
		transaction.ReceiverOrg = &org
	}
	return transaction
}

func (o *iatiOrg) toModel() models.Org {
	return models.Org{
		Ref:  o.Ref,
		Name: o.narrativeText(),
		Type: o.Type,
	}
}

func (o *iatiOrg) narrativeText() string {
	for _, n := range o.Narratives {
		if text := strings.TrimSpace(n.Text); text != "" {
			return text
		}
	}
	return ""
}

func (b *narrativeBlock) toNarratives() models.Narratives {
	if b == nil || len(b.Narratives) == 0 {
		return nil
	}
	narratives := make(models.Narratives, len(b.Narratives))
	for _, n := range b.Narratives {
		narratives[n.Lang] = strings.TrimSpace(n.Text)
	}
	return narratives
}

// mergeNarratives flattens several description elements into one narrative
// map; a later text in the same language wins.
func mergeNarratives(blocks []narrativeBlock) models.Narratives {
	var narratives models.Narratives
	for i := range blocks {
		for lang, text := range blocks[i].toNarratives() {
			if narratives == nil {
				narratives = make(models.Narratives)
			}
			narratives[lang] = text
		}
	}
	return narratives
}

func toAllocations(items []codedAllocation) []models.CountryAllocation {
	allocations := make([]models.CountryAllocation, 0, len(items))
	for _, item := range items {
		allocations = append(allocations, models.CountryAllocation{
			Code:       item.Code,
			Percentage: parseFloat(item.Percentage),
		})
	}
	return allocations
}

func toSectors(items []iatiSector) []models.Sector {
	sectors := make([]models.Sector, 0, len(items))
	for _, item := range items {
		vocabulary := item.Vocabulary
		if vocabulary == "" {
			// The IATI default sector vocabulary is DAC 5-digit.
			vocabulary = "1"
		}
		sectors = append(sectors, models.Sector{
			Code:       item.Code,
			Vocabulary: vocabulary,
			Percentage: parseFloat(item.Percentage),
		})
	}
	return sectors
}

func parseBool(s string) bool {
	s = strings.TrimSpace(s)
	return s == "1" || strings.EqualFold(s, "true")
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
