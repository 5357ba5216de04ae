package cfd

import (
	"TradeEngine/internal/domain/models"

	"github.com/shopspring/decimal"
)

const satsPerBtc = 100_000_000

var (
	satsFactor = decimal.NewFromInt(satsPerBtc)
	one        = decimal.NewFromInt(1)
	// Stand-in for infinity: shorting at leverage 1 can never be liquidated.
	maxShortLiquidationPrice = decimal.NewFromInt(21_000_000)
)

// Margin returns the collateral in sats backing quantity contracts at the
// given price and leverage. Contracts are inverse: the collateral is
// quantity / (price * leverage) BTC, rounded to 8 decimal places.
func Margin(price, quantity, leverage decimal.Decimal) decimal.Decimal {
	if price.IsZero() || leverage.IsZero() {
		return decimal.Zero
	}

	marginBtc := quantity.Div(price.Mul(leverage))

	return marginBtc.Round(8).Mul(satsFactor)
}

// Quantity is the inverse of Margin: the number of contracts a margin in sats
// buys at the given price and leverage.
func Quantity(price, marginSats, leverage decimal.Decimal) decimal.Decimal {
	marginBtc := marginSats.Div(satsFactor)

	return marginBtc.Mul(price).Mul(leverage)
}

func LongLiquidationPrice(price, leverage decimal.Decimal) decimal.Decimal {
	return price.Mul(leverage).Div(leverage.Add(one))
}

func ShortLiquidationPrice(price, leverage decimal.Decimal) decimal.Decimal {
	if leverage.Equal(one) {
		return maxShortLiquidationPrice
	}
	return price.Mul(leverage).Div(leverage.Sub(one))
}

func LiquidationPrice(price, leverage decimal.Decimal, direction models.Direction) decimal.Decimal {
	if direction == models.Long {
		return LongLiquidationPrice(price, leverage)
	}
	return ShortLiquidationPrice(price, leverage)
}

// Pnl returns the profit or loss in sats for the party trading in direction,
// were the position opened at entry and closed at exit. The payout is capped
// by what both parties actually put up as collateral.
func Pnl(entry, exit, quantity decimal.Decimal, direction models.Direction, longMarginSats, shortMarginSats decimal.Decimal) decimal.Decimal {
	if entry.IsZero() || exit.IsZero() {
		return decimal.Zero
	}

	pnlBtc := quantity.Mul(one.Div(entry).Sub(one.Div(exit)))
	if direction == models.Short {
		pnlBtc = pnlBtc.Neg()
	}

	pnl := pnlBtc.Round(8).Mul(satsFactor)

	var loss, gain decimal.Decimal
	if direction == models.Long {
		loss, gain = longMarginSats.Neg(), shortMarginSats
	} else {
		loss, gain = shortMarginSats.Neg(), longMarginSats
	}

	if pnl.LessThan(loss) {
		return loss
	}
	if pnl.GreaterThan(gain) {
		return gain
	}
	return pnl
}
