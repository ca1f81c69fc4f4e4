package money

import "github.com/shopspring/decimal"

// Round2 rounds a monetary amount to 2 decimal places, half away from zero.
// Every component (capital, interest, fees) is rounded independently before
// any summation so totals never drift from their displayed parts.
func Round2(v float64) float64 {
	out, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return out
}

// Sum2 rounds each operand to 2 decimals and returns their rounded sum.
func Sum2(parts ...float64) float64 {
	total := decimal.Zero
	for _, p := range parts {
		total = total.Add(decimal.NewFromFloat(p).Round(2))
	}
	out, _ := total.Round(2).Float64()
	return out
}
