// Package classify decides whether activities and transactions meet the
// "strict" COVID-19 criteria, and resolves the effective humanitarian marker
// for a transaction.
//
// "Strict" means verified via structured codes (humanitarian scope, tag or
// DAC sector) or a COVID-19 mention in a narrative, as opposed to activities
// that merely appeared in a keyword-filtered download.
package classify

import (
	"strings"

	"c19money/internal/models"
)

// Structured COVID-19 codes.
const (
	GlideCode     = "EP-2020-000012-001" // GLIDE epidemic number, scope type 1 vocabulary 1-2
	HRPCode       = "HCOVD20"            // Humanitarian Response Plan code, scope type 2 vocabulary 2-1
	TagCode       = "COVID-19"           // tag vocabulary 99
	DACSectorCode = "12264"              // DAC 5-digit COVID-19 control code, vocabulary 1
)

// HasC19Scope checks if the COVID-19 GLIDE number or HRP code is present.
func HasC19Scope(scopes []models.HumanitarianScope) bool {
	for _, scope := range scopes {
		code := strings.ToUpper(scope.Code)
		if scope.Type == "1" && scope.Vocabulary == "1-2" && code == GlideCode {
			return true
		}
		if scope.Type == "2" && scope.Vocabulary == "2-1" && code == HRPCode {
			return true
		}
	}
	return false
}

// HasC19Tag checks if the COVID-19 tag is present.
func HasC19Tag(tags []models.Tag) bool {
	for _, tag := range tags {
		if tag.Vocabulary == "99" && strings.EqualFold(tag.Code, TagCode) {
			return true
		}
	}
	return false
}

// HasC19Sector checks if the DAC COVID-19 sector code is present.
func HasC19Sector(sectors []models.Sector) bool {
	for _, sector := range sectors {
		if sector.Vocabulary == "1" && sector.Code == DACSectorCode {
			return true
		}
	}
	return false
}

// HasC19Narrative checks narratives in any language for the string "COVID-19"
// (case-insensitive).
func HasC19Narrative(narratives models.Narratives) bool {
	for _, text := range narratives {
		if strings.Contains(strings.ToUpper(text), TagCode) {
			return true
		}
	}
	return false
}

// IsActivityStrict reports whether the activity itself meets any of the
// strict COVID-19 criteria.
func IsActivityStrict(activity *models.Activity) bool {
	return HasC19Scope(activity.HumanitarianScopes) ||
		HasC19Tag(activity.Tags) ||
		HasC19Sector(activity.Sectors) ||
		HasC19Narrative(activity.Title)
}

// IsTransactionStrict reports whether the transaction on its own meets the
// strict criteria, via its sectors or its description narrative.
func IsTransactionStrict(transaction *models.Transaction) bool {
	return HasC19Sector(transaction.Sectors) ||
		HasC19Narrative(transaction.Description)
}

// EffectiveStrict combines activity- and transaction-level strictness.
// Strictness inherits downward and is never overridden back to false.
func EffectiveStrict(activityStrict bool, transaction *models.Transaction) bool {
	return activityStrict || IsTransactionStrict(transaction)
}

// EffectiveHumanitarian resolves the humanitarian marker for a transaction:
// an explicit marker on the transaction wins, even when it opts out of an
// activity-level marker; otherwise the activity's marker applies.
func EffectiveHumanitarian(activity *models.Activity, transaction *models.Transaction) bool {
	if transaction.Humanitarian != nil {
		return *transaction.Humanitarian
	}
	return activity.Humanitarian
}
