package splits_test

import (
	"testing"

	"c19money/internal/models"
	"c19money/internal/splits"

	"github.com/stretchr/testify/assert"
)

func TestCountriesDeclaredPercentages(t *testing.T) {
	result := splits.Countries([]models.CountryAllocation{
		{Code: "KE", Percentage: 60},
		{Code: "ug", Percentage: 40},
	}, nil)

	assert.Equal(t, map[string]float64{"KE": 0.6, "UG": 0.4}, result)
}

func TestCountriesMissingPercentageDefaultsTo100(t *testing.T) {
	result := splits.Countries([]models.CountryAllocation{{Code: "KE"}}, nil)
	assert.Equal(t, map[string]float64{"KE": 1.0}, result)
}

func TestCountriesNoRenormalization(t *testing.T) {
	// Percentages that do not sum to 100 are used as declared.
	result := splits.Countries([]models.CountryAllocation{
		{Code: "KE", Percentage: 30},
		{Code: "UG", Percentage: 30},
	}, nil)

	assert.Equal(t, map[string]float64{"KE": 0.3, "UG": 0.3}, result)
}

func TestCountriesEmptyCodeSkipped(t *testing.T) {
	result := splits.Countries([]models.CountryAllocation{
		{Code: "", Percentage: 50},
		{Code: "KE", Percentage: 50},
	}, nil)

	assert.Equal(t, map[string]float64{"KE": 0.5}, result)
}

func TestCountriesFallbacks(t *testing.T) {
	defaults := map[string]float64{"KE": 1.0}

	// No declared countries: the caller's defaults apply.
	assert.Equal(t, defaults, splits.Countries(nil, defaults))

	// No defaults either: full weight on the unknown-country sentinel.
	assert.Equal(t, map[string]float64{"XX": 1.0}, splits.Countries(nil, nil))

	// An empty (non-nil) default map still counts as provided defaults.
	assert.Equal(t, map[string]float64{}, splits.Countries(nil, map[string]float64{}))
}

func TestSectorsVocabularyPreference(t *testing.T) {
	// With both vocabularies present, only vocabulary-2 entries are used.
	result := splits.Sectors([]models.Sector{
		{Code: "12264", Vocabulary: "1", Percentage: 100},
		{Code: "122", Vocabulary: "2", Percentage: 70},
		{Code: "720", Vocabulary: "2", Percentage: 30},
	}, nil)

	assert.Equal(t, map[string]float64{"122": 0.7, "720": 0.3}, result)
}

func TestSectorsVocabularyOneOnly(t *testing.T) {
	result := splits.Sectors([]models.Sector{
		{Code: "12264", Vocabulary: "1", Percentage: 100},
		{Code: "11110", Vocabulary: "99"},
	}, nil)

	assert.Equal(t, map[string]float64{"12264": 1.0}, result)
}

func TestSectorsFallbacks(t *testing.T) {
	defaults := map[string]float64{"122": 1.0}

	assert.Equal(t, defaults, splits.Sectors(nil, defaults))
	assert.Equal(t, map[string]float64{"99999": 1.0}, splits.Sectors(nil, nil))

	// Sectors in an unused vocabulary leave the entity without usable splits.
	assert.Equal(t, defaults, splits.Sectors([]models.Sector{{Code: "ABC", Vocabulary: "99"}}, defaults))
}

func TestTwoLevelDefaulting(t *testing.T) {
	activity := models.Activity{
		RecipientCountries: []models.CountryAllocation{{Code: "KE", Percentage: 100}},
	}
	transaction := models.Transaction{}

	activitySplits := splits.Countries(activity.RecipientCountries, nil)
	// A transaction with no breakdown of its own inherits the activity's
	// splits, not the raw unknown-country default.
	assert.Equal(t, activitySplits, splits.Countries(transaction.RecipientCountries, activitySplits))
}
