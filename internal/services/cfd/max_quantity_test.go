package cfd

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMaxQuantityWithOpenQuantity(t *testing.T) {
	maxQuantity := MaxQuantity(MaxQuantityParams{
		Price:                    decimal.NewFromInt(22001),
		MaxCoordinatorMarginSats: 765_763,
		MaxTraderMarginSats:      747_499,
		CoordinatorLeverage:      decimal.NewFromInt(2),
		TraderLeverage:           decimal.NewFromInt(2),
		OrderMatchingFeeRate:     decimal.NewFromFloat(0.003),
		AccumulatedFeeSats:       4459,
		OpenQuantity:             decimal.NewFromInt(323),
	})

	// max trader quantity: 0.00747499 * 22,001 * 2 = 328.91
	// matching fee on 328.91 + 323 contracts: 8,889 sats
	// quantity on 747,499 - 8,889 sats: 325.00, plus the open 323
	assert.True(t, decimal.NewFromInt(648).Equal(maxQuantity), "got %s", maxQuantity)
}

func TestMaxQuantityConsumedByAccumulatedFees(t *testing.T) {
	maxQuantity := MaxQuantity(MaxQuantityParams{
		Price:                    decimal.NewFromInt(14999),
		MaxCoordinatorMarginSats: 7464,
		MaxTraderMarginSats:      1_048_951,
		CoordinatorLeverage:      decimal.NewFromInt(2),
		TraderLeverage:           decimal.NewFromInt(2),
		OrderMatchingFeeRate:     decimal.NewFromFloat(0.003),
		AccumulatedFeeSats:       4500,
	})

	assert.True(t, maxQuantity.IsZero(), "got %s", maxQuantity)
}

func TestMaxQuantityZeroTraderBalance(t *testing.T) {
	maxQuantity := MaxQuantity(MaxQuantityParams{
		Price:                    decimal.NewFromInt(30353),
		MaxCoordinatorMarginSats: 3_000_000,
		MaxTraderMarginSats:      0,
		OnChainFeeEstimateSats:   1515,
		CoordinatorLeverage:      decimal.NewFromInt(2),
		TraderLeverage:           decimal.NewFromInt(2),
		OrderMatchingFeeRate:     decimal.NewFromFloat(0.003),
	})

	assert.True(t, maxQuantity.IsZero(), "got %s", maxQuantity)
}

func TestMaxQuantityLeavesRoomForFees(t *testing.T) {
	price := decimal.NewFromInt(30209)
	traderLeverage := decimal.NewFromInt(2)
	rate := decimal.NewFromFloat(0.003)

	maxQuantity := MaxQuantity(MaxQuantityParams{
		Price:                    price,
		MaxCoordinatorMarginSats: 3_000_000,
		MaxTraderMarginSats:      280_000,
		OnChainFeeEstimateSats:   13_500,
		CoordinatorLeverage:      decimal.NewFromInt(2),
		TraderLeverage:           traderLeverage,
		OrderMatchingFeeRate:     rate,
	})

	traderMargin := Margin(price, maxQuantity, traderLeverage)
	fee := OrderMatchingFee(maxQuantity, price, rate)

	// The trader must still be able to pay the matching fee on top of the
	// margin, within the balance reduced by the on-chain reserve.
	assert.True(t, traderMargin.Add(fee).LessThan(decimal.NewFromInt(280_000)),
		"margin %s plus fee %s must fit into the trader balance", traderMargin, fee)

	coordinatorMargin := Margin(price, maxQuantity, decimal.NewFromInt(2))
	assert.True(t, coordinatorMargin.LessThan(decimal.NewFromInt(3_000_000)))
}

func TestMaxQuantityBindsOnSmallerCounterparty(t *testing.T) {
	price := decimal.NewFromInt(30209)

	maxQuantity := MaxQuantity(MaxQuantityParams{
		Price:                    price,
		MaxCoordinatorMarginSats: 450_000,
		MaxTraderMarginSats:      280_000,
		CoordinatorLeverage:      decimal.NewFromInt(2),
		TraderLeverage:           decimal.NewFromInt(5),
		OrderMatchingFeeRate:     decimal.NewFromFloat(0.003),
	})

	// The coordinator matches at leverage 2, so the trader cannot max out
	// their own balance at leverage 5.
	coordinatorMargin := Margin(price, maxQuantity, decimal.NewFromInt(2))
	assert.True(t, coordinatorMargin.LessThan(decimal.NewFromInt(450_000)))

	traderMargin := Margin(price, maxQuantity, decimal.NewFromInt(5))
	assert.True(t, traderMargin.LessThan(decimal.NewFromInt(280_000)))
}
