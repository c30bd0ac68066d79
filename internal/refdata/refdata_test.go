package refdata_test

import (
	"testing"

	"c19money/internal/models"
	"c19money/internal/refdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedResolver(t *testing.T) *refdata.Resolver {
	t.Helper()
	r := refdata.NewResolver("testdata")
	require.NoError(t, r.Load())
	return r
}

func TestLoadMissingTables(t *testing.T) {
	r := refdata.NewResolver("testdata/does-not-exist")
	assert.Error(t, r.Load())
}

func TestOrgNameFirstSeenWins(t *testing.T) {
	r := refdata.NewResolver("")

	name := r.OrgName(&models.Org{Ref: "XM-DAC-1", Name: "Example Agency"})
	assert.Equal(t, "Example Agency", name)

	// A later, different name for the same identifier is ignored.
	name = r.OrgName(&models.Org{Ref: "xm-dac-1", Name: "Example Agency (renamed)"})
	assert.Equal(t, "Example Agency", name)
}

func TestOrgNameCleaning(t *testing.T) {
	r := refdata.NewResolver("")
	name := r.OrgName(&models.Org{Ref: "XM-DAC-2", Name: `  "Example   Fund" `})
	assert.Equal(t, "Example Fund", name)
}

func TestOrgNameSentinels(t *testing.T) {
	r := refdata.NewResolver("")
	assert.Equal(t, refdata.UnspecifiedOrg, r.OrgName(nil))
	assert.Equal(t, refdata.UnspecifiedOrg, r.OrgName(&models.Org{Ref: "XM-DAC-3"}))

	// A missing name does not poison the cache for later lookups.
	name := r.OrgName(&models.Org{Ref: "XM-DAC-3", Name: "Example Ministry"})
	assert.Equal(t, "Example Ministry", name)
}

func TestOrgNameWithoutRef(t *testing.T) {
	r := refdata.NewResolver("")
	assert.Equal(t, "Anonymous NGO", r.OrgName(&models.Org{Name: "Anonymous NGO"}))
	// No identifier means nothing was cached.
	assert.Equal(t, refdata.UnspecifiedOrg, r.OrgName(&models.Org{}))
}

func TestSeedOrgs(t *testing.T) {
	r := refdata.NewResolver("")
	r.SeedOrgs(map[string]string{"XM-DAC-41122": "UNICEF"})

	name := r.OrgName(&models.Org{Ref: "XM-DAC-41122", Name: "United Nations Children's Fund"})
	assert.Equal(t, "UNICEF", name)
}

func TestOrgType(t *testing.T) {
	r := refdata.NewResolver("")
	r.OrgName(&models.Org{Ref: "XM-DAC-1", Name: "Example Agency", Type: "10"})

	assert.Equal(t, "10", r.OrgType(&models.Org{Ref: "XM-DAC-1", Name: "Example Agency"}))
	assert.Equal(t, "40", r.OrgType(&models.Org{Ref: "other", Type: "40"}))
	assert.Equal(t, "", r.OrgType(nil))
}

func TestSectorGroupName(t *testing.T) {
	r := loadedResolver(t)

	assert.Equal(t, "Basic Health", r.SectorGroupName("122"))
	// 5-digit purpose codes roll up to their 3-digit group.
	assert.Equal(t, "Basic Health", r.SectorGroupName("12264"))
	assert.Equal(t, refdata.UnspecifiedSector, r.SectorGroupName("99999"))
	assert.Equal(t, refdata.UnspecifiedSector, r.SectorGroupName(""))
}

func TestCountryName(t *testing.T) {
	r := loadedResolver(t)

	assert.Equal(t, "Kenya", r.CountryName("KE"))
	assert.Equal(t, refdata.UnspecifiedCountry, r.CountryName("XX"))
	assert.Equal(t, refdata.UnspecifiedCountry, r.CountryName(""))
}

func TestRates(t *testing.T) {
	r := loadedResolver(t)
	assert.InDelta(t, 0.8, r.Rates()["EUR"], 1e-9)
}
