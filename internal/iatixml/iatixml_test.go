package iatixml_test

import (
	"os"
	"path/filepath"
	"testing"

	"c19money/internal/iatixml"
	"c19money/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<iati-activities version="2.03">
  <iati-activity default-currency="EUR" humanitarian="1" xml:lang="en">
    <iati-identifier>XM-DAC-1-001</iati-identifier>
    <reporting-org ref="XM-DAC-1" type="10">
      <narrative>Example Agency</narrative>
    </reporting-org>
    <title>
      <narrative xml:lang="en">COVID-19 response</narrative>
      <narrative xml:lang="fr">Riposte au COVID-19</narrative>
    </title>
    <description type="1">
      <narrative>Emergency health support.</narrative>
    </description>
    <participating-org role="4" ref="NGO-22" type="21">
      <narrative>Implementing Partner</narrative>
    </participating-org>
    <recipient-country code="ke" percentage="60"/>
    <recipient-country code="UG" percentage="40"/>
    <recipient-region code="298" percentage="100"/>
    <sector code="12264" percentage="100"/>
    <sector code="H.1" vocabulary="10"/>
    <tag vocabulary="99" code="COVID-19"/>
    <humanitarian-scope type="1" vocabulary="1-2" code="EP-2020-000012-001"/>
    <transaction ref="t-1">
      <transaction-type code="3"/>
      <transaction-date iso-date="2020-06-15"/>
      <value currency="USD" value-date="2020-06-20">1,250.75</value>
      <description>
        <narrative>First disbursement</narrative>
      </description>
      <provider-org ref="XM-DAC-1" provider-activity-id="XM-DAC-1-000" type="10">
        <narrative>Example Agency</narrative>
      </provider-org>
      <receiver-org ref="NGO-22" receiver-activity-id="NGO-22-007">
        <narrative>Implementing Partner</narrative>
      </receiver-org>
      <recipient-country code="KE"/>
      <sector code="12220"/>
    </transaction>
    <transaction humanitarian="0">
      <transaction-type code="2"/>
      <transaction-date iso-date="2020-03-01"/>
      <value value-date="2020-03-01">5000</value>
    </transaction>
    <transaction>
      <transaction-type code="3"/>
      <transaction-date iso-date="2020-04-01"/>
    </transaction>
  </iati-activity>
  <iati-activity>
    <iati-identifier>SE-0-SE-2</iati-identifier>
    <reporting-org ref="SE-0" type="10" secondary-reporter="true">
      <narrative>Forwarding Agency</narrative>
    </reporting-org>
  </iati-activity>
</iati-activities>`

func parseSample(t *testing.T) []models.Activity {
	t.Helper()
	parser := iatixml.NewParser(nil)
	activities, err := parser.Parse([]byte(sampleXML))
	require.NoError(t, err)
	require.Len(t, activities, 2)
	return activities
}

func TestParseActivityFields(t *testing.T) {
	activity := parseSample(t)[0]

	assert.Equal(t, "XM-DAC-1-001", activity.Identifier)
	assert.Equal(t, "XM-DAC-1", activity.ReportingOrg.Ref)
	assert.Equal(t, "Example Agency", activity.ReportingOrg.Name)
	assert.Equal(t, "10", activity.ReportingOrg.Type)
	assert.False(t, activity.SecondaryReporter)
	assert.True(t, activity.Humanitarian)

	assert.Equal(t, "COVID-19 response", activity.Title["en"])
	assert.Equal(t, "Riposte au COVID-19", activity.Title["fr"])
	assert.Equal(t, "Emergency health support.", activity.Description[""])

	require.Len(t, activity.RecipientCountries, 2)
	assert.Equal(t, "ke", activity.RecipientCountries[0].Code)
	assert.Equal(t, 60.0, activity.RecipientCountries[0].Percentage)
	require.Len(t, activity.RecipientRegions, 1)
	assert.Equal(t, "298", activity.RecipientRegions[0].Code)

	require.Len(t, activity.Sectors, 2)
	// A sector without a vocabulary attribute defaults to DAC 5-digit.
	assert.Equal(t, "1", activity.Sectors[0].Vocabulary)
	assert.Equal(t, "10", activity.Sectors[1].Vocabulary)
	assert.Equal(t, 0.0, activity.Sectors[1].Percentage)

	require.Len(t, activity.Tags, 1)
	assert.Equal(t, models.Tag{Vocabulary: "99", Code: "COVID-19"}, activity.Tags[0])

	require.Len(t, activity.HumanitarianScopes, 1)
	assert.Equal(t, "EP-2020-000012-001", activity.HumanitarianScopes[0].Code)

	require.Len(t, activity.ParticipatingOrgs["4"], 1)
	assert.Equal(t, "Implementing Partner", activity.ParticipatingOrgs["4"][0].Name)
}

func TestParseTransactions(t *testing.T) {
	activity := parseSample(t)[0]
	require.Len(t, activity.Transactions, 3)

	first := activity.Transactions[0]
	assert.Equal(t, "t-1", first.Ref)
	assert.Equal(t, models.TypeDisbursement, first.Type)
	assert.Equal(t, "2020-06-15", first.Date)
	assert.Equal(t, "2020-06-20", first.ValueDate)
	assert.Equal(t, "USD", first.Currency)
	require.True(t, first.HasValue())
	assert.Equal(t, "1250.75", first.Value.Decimal.String())
	assert.Nil(t, first.Humanitarian)
	assert.Equal(t, "First disbursement", first.Description[""])
	require.NotNil(t, first.ProviderOrg)
	assert.Equal(t, "XM-DAC-1-000", first.ProviderOrg.ActivityID)
	require.NotNil(t, first.ReceiverOrg)
	assert.Equal(t, "NGO-22-007", first.ReceiverOrg.ActivityID)
	require.Len(t, first.RecipientCountries, 1)
	require.Len(t, first.Sectors, 1)
	assert.Equal(t, "1", first.Sectors[0].Vocabulary)

	second := activity.Transactions[1]
	// Value without a currency attribute picks up the activity default.
	assert.Equal(t, "EUR", second.Currency)
	require.NotNil(t, second.Humanitarian)
	assert.False(t, *second.Humanitarian)

	third := activity.Transactions[2]
	assert.False(t, third.HasValue())
}

func TestParseSecondaryReporter(t *testing.T) {
	activity := parseSample(t)[1]
	assert.True(t, activity.SecondaryReporter)
	assert.False(t, activity.Humanitarian)
	assert.Empty(t, activity.Transactions)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "iati-activities-001.xml")
	require.NoError(t, os.WriteFile(path, []byte(sampleXML), 0o600))

	parser := iatixml.NewParser(nil)
	activities, err := parser.ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, activities, 2)
}

func TestParseInvalidXML(t *testing.T) {
	parser := iatixml.NewParser(nil)
	_, err := parser.Parse([]byte("not xml at all <"))
	assert.Error(t, err)
}

func TestValidateFormat(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "valid.xml")
	require.NoError(t, os.WriteFile(valid, []byte(sampleXML), 0o600))

	empty := filepath.Join(dir, "empty.xml")
	require.NoError(t, os.WriteFile(empty, []byte(`<iati-activities version="2.03"/>`), 0o600))

	other := filepath.Join(dir, "other.xml")
	require.NoError(t, os.WriteFile(other, []byte(`<html><body/></html>`), 0o600))

	parser := iatixml.NewParser(nil)

	ok, err := parser.ValidateFormat(valid)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = parser.ValidateFormat(empty)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = parser.ValidateFormat(other)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = parser.ValidateFormat(filepath.Join(dir, "missing.xml"))
	assert.Error(t, err)
}
