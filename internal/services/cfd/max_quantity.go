package cfd

import "github.com/shopspring/decimal"

type MaxQuantityParams struct {
	Price                    decimal.Decimal
	MaxCoordinatorMarginSats int64
	MaxTraderMarginSats      int64
	// OnChainFeeEstimateSats is zero when trading inside an existing channel;
	// otherwise the channel fee reserve plus the (buffered) funding tx fee.
	OnChainFeeEstimateSats int64
	CoordinatorLeverage    decimal.Decimal
	TraderLeverage         decimal.Decimal
	OrderMatchingFeeRate   decimal.Decimal
	// AccumulatedFeeSats are matching fees already owed on the open position.
	AccumulatedFeeSats int64
	// OpenQuantity is held in the opposite direction and can be traded on top
	// of the collateral-bound quantity.
	OpenQuantity decimal.Decimal
}

// MaxQuantity approximates the largest quantity both parties can still
// collateralize:
//
//  1. reduce both max margins by the on-chain fee estimate (and the
//     accumulated matching fees on the coordinator side),
//  2. compute each side's max quantity at its own leverage and take the
//     binding side,
//  3. subtract the matching fee on that quantity (plus any open quantity)
//     from the binding margin and recompute.
//
// The result is floored to whole contracts. It is a close approximation, not
// an exact fixpoint.
func MaxQuantity(p MaxQuantityParams) decimal.Decimal {
	maxCoordinatorSats := p.MaxCoordinatorMarginSats - p.OnChainFeeEstimateSats - p.AccumulatedFeeSats
	if maxCoordinatorSats < 0 {
		maxCoordinatorSats = 0
	}
	maxTraderSats := p.MaxTraderMarginSats - p.OnChainFeeEstimateSats
	if maxTraderSats < 0 {
		maxTraderSats = 0
	}

	maxCoordinatorMargin := decimal.NewFromInt(maxCoordinatorSats)
	maxTraderMargin := decimal.NewFromInt(maxTraderSats)

	maxTraderQuantity := Quantity(p.Price, maxTraderMargin, p.TraderLeverage)
	maxCoordinatorQuantity := Quantity(p.Price, maxCoordinatorMargin, p.CoordinatorLeverage)

	quantity, maxMargin, leverage := maxTraderQuantity, maxTraderMargin, p.TraderLeverage
	if maxTraderQuantity.GreaterThan(maxCoordinatorQuantity) {
		quantity, maxMargin, leverage = maxCoordinatorQuantity, maxCoordinatorMargin, p.CoordinatorLeverage
	}

	fee := OrderMatchingFee(quantity.Add(p.OpenQuantity), p.Price, p.OrderMatchingFeeRate)

	remainingMargin := maxMargin.Sub(fee)
	if remainingMargin.IsNegative() {
		remainingMargin = decimal.Zero
	}

	maxQuantity := Quantity(p.Price, remainingMargin, leverage)

	return maxQuantity.Add(p.OpenQuantity).Floor()
}
