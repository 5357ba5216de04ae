package cfd

import "github.com/shopspring/decimal"

// OrderMatchingFee is charged on the filled quantity:
// quantity * (1/price) * feeRate BTC, rounded to 8 decimal places and
// returned in sats. A zero price yields a zero fee.
func OrderMatchingFee(quantity, price, feeRate decimal.Decimal) decimal.Decimal {
	if price.IsZero() {
		return decimal.Zero
	}

	fee := quantity.Mul(one.Div(price)).Mul(feeRate)

	return fee.Round(8).Mul(satsFactor)
}
