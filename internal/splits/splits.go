// Package splits derives percentage-weighted distributions of a monetary
// amount across recipient countries and sectors, for an activity or a single
// transaction.
//
// Weights are used as declared and are not renormalised: source data is often
// incomplete and declared percentages for an entity may not sum to 100. That
// is accepted behaviour, carried through to the output as-is.
package splits

import (
	"strings"

	"c19money/internal/models"
)

// Sentinel codes used when an entity declares no breakdown at all.
const (
	UnknownCountry = "XX"
	UnknownSector  = "99999"
)

// Countries generates recipient-country splits by percentage. Each declared
// country with a non-empty code contributes weight percentage/100, defaulting
// to 100% when no percentage is declared. When the entity declares no
// countries, the provided defaults apply (e.g. a transaction inheriting its
// activity's breakdown); with no defaults either, the full weight goes to the
// unknown-country sentinel.
func Countries(countries []models.CountryAllocation, defaults map[string]float64) map[string]float64 {
	result := make(map[string]float64)
	for _, country := range countries {
		if country.Code == "" {
			continue
		}
		result[strings.ToUpper(country.Code)] = weight(country.Percentage)
	}

	if len(result) > 0 {
		return result
	}
	if defaults != nil {
		return defaults
	}
	return map[string]float64{UnknownCountry: 1.0}
}

// Sectors generates sector splits by percentage, with the same defaulting
// rules as Countries. When any sector uses vocabulary "2", only vocabulary-2
// entries are used; otherwise vocabulary-1 entries are used. Mixing
// vocabularies would double-count the same money under two coding schemes.
func Sectors(sectors []models.Sector, defaults map[string]float64) map[string]float64 {
	vocabulary := "1"
	for _, sector := range sectors {
		if sector.Vocabulary == "2" {
			vocabulary = "2"
			break
		}
	}

	result := make(map[string]float64)
	for _, sector := range sectors {
		if sector.Vocabulary != vocabulary || sector.Code == "" {
			continue
		}
		result[strings.ToUpper(sector.Code)] = weight(sector.Percentage)
	}

	if len(result) > 0 {
		return result
	}
	if defaults != nil {
		return defaults
	}
	return map[string]float64{UnknownSector: 1.0}
}

// weight converts a declared percentage to a fractional weight. An undeclared
// percentage counts as 100%.
func weight(percentage float64) float64 {
	if percentage == 0 {
		percentage = 100.0
	}
	return percentage / 100.0
}
