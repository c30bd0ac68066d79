// Package netmoney estimates how much of an activity's outgoing money is
// genuinely new, as opposed to passthrough of funds the activity itself
// received. Without this adjustment the same dollar is counted once when a
// donor commits it and again when an implementer spends it.
package netmoney

import (
	"c19money/internal/currencyutils"
	"c19money/internal/models"
)

// Factors scale outgoing transactions of the matching category down to their
// net-new-money share. Both values are in [0.0, 1.0].
type Factors struct {
	Commitment float64
	Spending   float64
}

// Compute derives the net-money factors for an activity by comparing its
// outgoing commitments and spending against the funds it received. Incoming
// commitments and incoming funds both represent money made available to the
// implementer; the larger of the two is the cushion already accounted for,
// which avoids double-discounting when both are reported.
func Compute(activity *models.Activity, converter *currencyutils.Converter) Factors {
	incomingFunds := SumByType(activity.Transactions, converter, models.TypeIncomingFunds)
	outgoingCommitments := SumByType(activity.Transactions, converter, models.TypeOutgoingCommitment)
	spending := SumByType(activity.Transactions, converter, models.TypeDisbursement, models.TypeExpenditure)
	incomingCommitments := SumByType(activity.Transactions, converter, models.TypeIncomingCommitment)

	incoming := incomingCommitments
	if incomingFunds > incoming {
		incoming = incomingFunds
	}
	if incoming < 0 {
		incoming = 0
	}

	return Factors{
		Commitment: factor(outgoingCommitments, incoming),
		Spending:   factor(spending, incoming),
	}
}

// factor returns the fraction of outgoing that is not covered by incoming.
// No incoming money means everything outgoing is new; outgoing fully covered
// by incoming means none of it is.
func factor(outgoing, incoming int64) float64 {
	if incoming == 0 {
		return 1.0
	}
	if outgoing > incoming {
		return float64(outgoing-incoming) / float64(outgoing)
	}
	return 0.0
}

// SumByType totals the USD-converted values of an activity's transactions
// matching any of the given type codes. Transactions without a value are
// skipped.
func SumByType(transactions []models.Transaction, converter *currencyutils.Converter, types ...string) int64 {
	var total int64
	for i := range transactions {
		transaction := &transactions[i]
		if !transaction.HasValue() {
			continue
		}
		for _, t := range types {
			if transaction.Type == t {
				total += converter.ToUSD(transaction.Value.Decimal, transaction.Currency, transaction.Date)
				break
			}
		}
	}
	return total
}
