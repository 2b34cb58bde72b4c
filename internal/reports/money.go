package reports

import "github.com/shopspring/decimal"

// Money math is done in decimal so the report identities (net = revenue −
// expenses, item net = credit − debit) hold exactly at two decimal places.

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// Round2 rounds a float amount to two decimal places.
func Round2(v float64) float64 {
	return round2(dec(v))
}

// FormatAmount renders an amount with fixed two-decimal formatting.
func FormatAmount(v float64) string {
	return dec(v).StringFixed(2)
}
