// Package currencyutils provides currency conversion to whole US dollars
// using a fallback exchange-rate table.
package currencyutils

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Converter converts transaction values to whole US dollars using a static
// rate table (units of currency per USD). It never fails: unknown currencies
// convert to zero so that a single bad record cannot abort a batch run.
type Converter struct {
	rates map[string]decimal.Decimal
}

// NewConverter creates a converter from a rate table keyed by uppercase
// currency code, each value expressed as units per USD.
func NewConverter(rates map[string]float64) *Converter {
	decRates := make(map[string]decimal.Decimal, len(rates))
	for code, rate := range rates {
		decRates[strings.ToUpper(strings.TrimSpace(code))] = decimal.NewFromFloat(rate)
	}
	return &Converter{rates: decRates}
}

// ToUSD converts a value to whole US dollars, rounding to the nearest
// integer. USD passes through unconverted; a currency missing from the rate
// table converts to zero. The date parameter is accepted for interface parity
// with a dated-rate source but the fallback table is not dated.
func (c *Converter) ToUSD(value decimal.Decimal, currency, isodate string) int64 {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if !value.IsZero() && currency != "USD" {
		rate, ok := c.rates[currency]
		if !ok || rate.IsZero() {
			log.WithField("currency", currency).Debug("No fallback rate for currency, converting to zero")
			return 0
		}
		value = value.Div(rate)
	}
	return value.Round(0).IntPart()
}

// ParseAmount parses a raw amount string from an IATI value element into a
// decimal. Returns ok=false when the text does not contain a usable number.
func ParseAmount(amountStr string) (decimal.Decimal, bool) {
	amountStr = strings.TrimSpace(strings.ReplaceAll(amountStr, ",", ""))
	if amountStr == "" {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}
