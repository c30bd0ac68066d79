// Package refdata resolves raw IATI codes and identifiers to display names:
// organisation names, DAC sector group names and country names. Lookups never
// fail; unknown codes degrade to "(Unspecified ...)" sentinels.
package refdata

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"c19money/internal/fileutils"
	"c19money/internal/models"
	"c19money/internal/textutils"

	"github.com/sirupsen/logrus"
)

// Sentinel display names returned for unresolvable references.
const (
	UnspecifiedOrg     = "(Unspecified org)"
	UnspecifiedSector  = "(Unspecified sector)"
	UnspecifiedCountry = "(Unspecified country)"
)

// Reference table file names, resolved relative to the data directory.
const (
	SectorMapFile = "dac3-sector-map.json"
	CountriesFile = "countries.json"
	RatesFile     = "fallbackrates.json"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

type orgEntry struct {
	name    string
	orgType string
}

// Resolver owns the reference lookup state for a single run: the first-seen
// organisation name cache and the static code tables. It replaces the
// process-wide caches of earlier scripts with explicit per-run state.
type Resolver struct {
	dataDir string

	orgs         map[string]orgEntry
	sectorGroups map[string]string
	countryNames map[string]string
	rates        map[string]float64
}

// NewResolver creates a resolver reading its reference tables from dataDir.
// Call Load before resolving sector or country codes; organisation resolution
// needs no tables.
func NewResolver(dataDir string) *Resolver {
	return &Resolver{
		dataDir: dataDir,
		orgs:    make(map[string]orgEntry),
	}
}

// Load reads the sector, country and exchange-rate tables. A missing or
// malformed table is a configuration error and fails hard, unlike individual
// code lookups which degrade to sentinels.
func (r *Resolver) Load() error {
	var sectors map[string]struct {
		DACGroup string `json:"dac-group"`
	}
	if err := r.loadJSON(SectorMapFile, &sectors); err != nil {
		return err
	}
	r.sectorGroups = make(map[string]string, len(sectors))
	for code, info := range sectors {
		r.sectorGroups[code] = info.DACGroup
	}

	var countries struct {
		Data []struct {
			ISO2  string `json:"iso2"`
			Label struct {
				Default string `json:"default"`
			} `json:"label"`
		} `json:"data"`
	}
	if err := r.loadJSON(CountriesFile, &countries); err != nil {
		return err
	}
	r.countryNames = make(map[string]string, len(countries.Data))
	for _, info := range countries.Data {
		r.countryNames[info.ISO2] = info.Label.Default
	}

	var rates struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := r.loadJSON(RatesFile, &rates); err != nil {
		return err
	}
	r.rates = rates.Rates

	log.WithFields(logrus.Fields{
		"sectors":   len(r.sectorGroups),
		"countries": len(r.countryNames),
		"rates":     len(r.rates),
	}).Debug("Loaded reference tables")
	return nil
}

func (r *Resolver) loadJSON(filename string, v interface{}) error {
	path := filepath.Join(r.dataDir, filename)
	data, err := fileutils.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read reference table %s: %w", filename, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse reference table %s: %w", filename, err)
	}
	return nil
}

// SeedOrgs pre-seeds the organisation name cache from an external registry
// keyed by identifier. Seeded names win over names found later in the data.
func (r *Resolver) SeedOrgs(names map[string]string) {
	for ref, name := range names {
		ref = textutils.NormalizeRef(ref)
		name = textutils.CleanString(name)
		if ref == "" || name == "" {
			continue
		}
		if _, ok := r.orgs[ref]; !ok {
			r.orgs[ref] = orgEntry{name: name}
		}
	}
}

// OrgName standardises an organisation name. The first usable name seen for
// an identifier wins; later differing names for the same identifier are
// ignored so that one org aggregates under one label.
func (r *Resolver) OrgName(org *models.Org) string {
	if org == nil {
		return UnspecifiedOrg
	}
	ref := textutils.NormalizeRef(org.Ref)
	name := textutils.CleanString(org.Name)

	if ref != "" {
		if entry, ok := r.orgs[ref]; ok {
			return entry.name
		}
	}
	if name == "" {
		return UnspecifiedOrg
	}
	if ref != "" {
		r.orgs[ref] = orgEntry{name: name, orgType: org.Type}
	}
	return name
}

// OrgType returns the first-seen organisation type code for an identifier, or
// the org's own type when it has not been cached.
func (r *Resolver) OrgType(org *models.Org) string {
	if org == nil {
		return ""
	}
	if ref := textutils.NormalizeRef(org.Ref); ref != "" {
		if entry, ok := r.orgs[ref]; ok && entry.orgType != "" {
			return entry.orgType
		}
	}
	return org.Type
}

// SectorGroupName looks up the DAC group name for a 3- or 5-digit sector
// code. 5-digit IATI purpose codes roll up to their 3-digit DAC group.
func (r *Resolver) SectorGroupName(code string) string {
	if len(code) > 3 {
		code = code[:3]
	}
	if name, ok := r.sectorGroups[code]; ok {
		return name
	}
	return UnspecifiedSector
}

// CountryName looks up the display name for an ISO2 country code.
func (r *Resolver) CountryName(code string) string {
	if name, ok := r.countryNames[strings.ToUpper(code)]; ok {
		return name
	}
	return UnspecifiedCountry
}

// Rates returns the fallback exchange-rate table (units per USD).
func (r *Resolver) Rates() map[string]float64 {
	return r.rates
}
