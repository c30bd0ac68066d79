package models

import "github.com/shopspring/decimal"

// IATI transaction type codes. Any other code is ignored by the aggregator.
const (
	TypeIncomingFunds      = "1"
	TypeOutgoingCommitment = "2"
	TypeDisbursement       = "3"
	TypeExpenditure        = "4"
	TypeIncomingCommitment = "11"
)

// Transaction represents a single financial transaction belonging to an
// activity. A transaction has no independent lifecycle.
type Transaction struct {
	Ref      string              `json:"ref,omitempty"`
	Type     string              `json:"type"`
	Date     string              `json:"date"`
	Value    decimal.NullDecimal `json:"value_orig"`
	Currency string              `json:"currency_orig"`
	// ValueDate is the date used for currency conversion; Date buckets the
	// transaction into a year-month.
	ValueDate string `json:"conversion_date"`
	// Humanitarian is nil when the transaction carries no explicit marker,
	// in which case the activity's marker applies.
	Humanitarian       *bool               `json:"has_humanitarian_marker"`
	Description        Narratives          `json:"description,omitempty"`
	RecipientCountries []CountryAllocation `json:"recipient_countries"`
	Sectors            []Sector            `json:"sectors"`
	ProviderOrg        *Org                `json:"provider_org"`
	ReceiverOrg        *Org                `json:"receiver_org"`
}

// HasValue reports whether the transaction declares a monetary value.
// Transactions without one are skipped by the aggregator.
func (t *Transaction) HasValue() bool {
	return t.Value.Valid
}

// IsSpending reports whether the transaction is a disbursement or an
// expenditure, the two types rolled up into the "spending" category.
func (t *Transaction) IsSpending() bool {
	return t.Type == TypeDisbursement || t.Type == TypeExpenditure
}
