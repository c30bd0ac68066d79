package netmoney_test

import (
	"testing"

	"c19money/internal/currencyutils"
	"c19money/internal/models"
	"c19money/internal/netmoney"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func usd(transactionType string, amount int64) models.Transaction {
	return models.Transaction{
		Type:     transactionType,
		Value:    decimal.NewNullDecimal(decimal.NewFromInt(amount)),
		Currency: "USD",
		Date:     "2020-06-15",
	}
}

func compute(transactions ...models.Transaction) netmoney.Factors {
	activity := models.Activity{Transactions: transactions}
	return netmoney.Compute(&activity, currencyutils.NewConverter(nil))
}

func TestNoIncomingMeansFullFactors(t *testing.T) {
	factors := compute(
		usd(models.TypeOutgoingCommitment, 5000),
		usd(models.TypeDisbursement, 1000),
	)
	assert.Equal(t, 1.0, factors.Commitment)
	assert.Equal(t, 1.0, factors.Spending)
}

func TestOutgoingFullyCoveredByIncoming(t *testing.T) {
	factors := compute(
		usd(models.TypeIncomingFunds, 5000),
		usd(models.TypeOutgoingCommitment, 5000),
		usd(models.TypeDisbursement, 3000),
	)
	// Commitments exactly equal incoming: no new money.
	assert.Equal(t, 0.0, factors.Commitment)
	assert.Equal(t, 0.0, factors.Spending)
}

func TestPartialNewMoney(t *testing.T) {
	factors := compute(
		usd(models.TypeIncomingFunds, 2000),
		usd(models.TypeOutgoingCommitment, 8000),
		usd(models.TypeDisbursement, 4000),
		usd(models.TypeExpenditure, 1000),
	)
	assert.InDelta(t, 0.75, factors.Commitment, 1e-9)
	// Spending = 4000 + 1000; (5000-2000)/5000.
	assert.InDelta(t, 0.6, factors.Spending, 1e-9)
}

func TestLargerOfIncomingStreamsIsTheCushion(t *testing.T) {
	factors := compute(
		usd(models.TypeIncomingFunds, 1000),
		usd(models.TypeIncomingCommitment, 4000),
		usd(models.TypeOutgoingCommitment, 8000),
	)
	assert.InDelta(t, 0.5, factors.Commitment, 1e-9)
}

func TestNegativeIncomingClampedToZero(t *testing.T) {
	factors := compute(
		usd(models.TypeIncomingFunds, -3000),
		usd(models.TypeIncomingCommitment, -1000),
		usd(models.TypeOutgoingCommitment, 2000),
	)
	// Refunds larger than receipts clamp incoming to zero, so the full
	// outgoing amount counts as new.
	assert.Equal(t, 1.0, factors.Commitment)
}

func TestSumByType(t *testing.T) {
	converter := currencyutils.NewConverter(map[string]float64{"EUR": 0.8})
	noValue := models.Transaction{Type: models.TypeDisbursement, Currency: "USD", Date: "2020-06-15"}
	eur := models.Transaction{
		Type:     models.TypeDisbursement,
		Value:    decimal.NewNullDecimal(decimal.NewFromInt(800)),
		Currency: "EUR",
		Date:     "2020-06-15",
	}

	total := netmoney.SumByType(
		[]models.Transaction{usd(models.TypeDisbursement, 100), usd(models.TypeExpenditure, 50), usd(models.TypeIncomingFunds, 999), noValue, eur},
		converter,
		models.TypeDisbursement, models.TypeExpenditure,
	)
	assert.Equal(t, int64(100+50+1000), total)
}
