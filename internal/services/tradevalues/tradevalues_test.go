package tradevalues

import (
	"testing"

	"TradeEngine/internal/config"
	"TradeEngine/internal/domain/models"
	"TradeEngine/internal/services/cfd"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCalculator() *cfd.Service {
	return cfd.NewService(
		config.ContractConfig{
			Symbol:               "BTCUSDT",
			Network:              cfd.NetworkRegtest,
			OrderMatchingFeeRate: 0.003,
		},
		config.ConstraintsConfig{
			MaxLocalMarginSats:        1_000_000_000,
			MaxCounterpartyMarginSats: 1_000_000_000,
			CoordinatorLeverage:       2,
			MinQuantity:               1,
		},
	)
}

func TestDerivedFieldsNilWithoutPrice(t *testing.T) {
	v := NewTradeValues(newTestCalculator(), models.Long, PrimaryQuantity,
		decimal.NewFromInt(100), decimal.NewFromInt(2))

	v.UpdateQuantity(decimal.NewFromInt(250))
	v.UpdateLeverage(decimal.NewFromInt(5))
	v.UpdateOpenQuantity(decimal.NewFromInt(10))

	snapshot := v.Snapshot()

	assert.Nil(t, snapshot.Price)
	assert.Nil(t, snapshot.MarginSats)
	assert.Nil(t, snapshot.LiquidationPrice)
	assert.Nil(t, snapshot.FeeSats)
	assert.Nil(t, snapshot.MaxQuantity)
	assert.True(t, decimal.NewFromInt(250).Equal(snapshot.Quantity))
	assert.False(t, snapshot.Expiry.IsZero())
}

func TestUpdatePriceDerivesEverything(t *testing.T) {
	v := NewTradeValues(newTestCalculator(), models.Long, PrimaryQuantity,
		decimal.NewFromInt(100), decimal.NewFromInt(2))

	v.UpdatePrice(decimal.NewFromInt(50_000))

	snapshot := v.Snapshot()

	require.NotNil(t, snapshot.MarginSats)
	assert.True(t, decimal.NewFromInt(100_000).Equal(*snapshot.MarginSats), "got %s", snapshot.MarginSats)

	require.NotNil(t, snapshot.LiquidationPrice)
	assert.True(t, snapshot.LiquidationPrice.LessThan(decimal.NewFromInt(50_000)))

	// 100 * (1/50,000) * 0.003 = 0.000006 BTC
	require.NotNil(t, snapshot.FeeSats)
	assert.True(t, decimal.NewFromInt(600).Equal(*snapshot.FeeSats), "got %s", snapshot.FeeSats)

	require.NotNil(t, snapshot.MaxQuantity)
	assert.True(t, snapshot.MaxQuantity.GreaterThan(decimal.Zero))
}

func TestUpdateMarginDerivesQuantity(t *testing.T) {
	v := NewTradeValues(newTestCalculator(), models.Long, PrimaryMargin,
		decimal.Zero, decimal.NewFromInt(2))

	v.UpdatePrice(decimal.NewFromInt(50_000))
	v.UpdateMargin(decimal.NewFromInt(123_456))

	snapshot := v.Snapshot()

	// 0.00123456 BTC * 50,000 * 2 = 123.456 contracts
	assert.True(t, decimal.NewFromFloat(123.456).Equal(snapshot.Quantity), "got %s", snapshot.Quantity)
}

func TestQuantityInvariantUnderLeverage(t *testing.T) {
	v := NewTradeValues(newTestCalculator(), models.Long, PrimaryQuantity,
		decimal.NewFromInt(100), decimal.NewFromInt(2))

	v.UpdatePrice(decimal.NewFromInt(50_000))
	before := v.Snapshot()

	v.UpdateLeverage(decimal.NewFromInt(4))
	after := v.Snapshot()

	assert.True(t, before.Quantity.Equal(after.Quantity))

	// Double the leverage, half the collateral.
	require.NotNil(t, after.MarginSats)
	assert.True(t, decimal.NewFromInt(50_000).Equal(*after.MarginSats), "got %s", after.MarginSats)
}

func TestMutatorsAreIdempotent(t *testing.T) {
	v := NewTradeValues(newTestCalculator(), models.Short, PrimaryQuantity,
		decimal.NewFromInt(100), decimal.NewFromInt(2))

	v.UpdatePrice(decimal.NewFromInt(50_000))

	v.UpdateLeverage(decimal.NewFromInt(3))
	once := v.Snapshot()

	v.UpdateLeverage(decimal.NewFromInt(3))
	twice := v.Snapshot()

	assert.Equal(t, once, twice)
}

func TestPrimaryFieldDispatchOnPrice(t *testing.T) {
	price := decimal.NewFromInt(50_000)

	t.Run("quantity primary keeps quantity", func(t *testing.T) {
		v := NewTradeValues(newTestCalculator(), models.Long, PrimaryQuantity,
			decimal.NewFromInt(100), decimal.NewFromInt(2))

		v.UpdatePrice(price)
		v.UpdatePrice(decimal.NewFromInt(40_000))

		snapshot := v.Snapshot()
		assert.True(t, decimal.NewFromInt(100).Equal(snapshot.Quantity))

		// Cheaper contracts at a lower price need more collateral.
		require.NotNil(t, snapshot.MarginSats)
		assert.True(t, decimal.NewFromInt(125_000).Equal(*snapshot.MarginSats), "got %s", snapshot.MarginSats)
	})

	t.Run("margin primary keeps margin", func(t *testing.T) {
		v := NewTradeValues(newTestCalculator(), models.Long, PrimaryMargin,
			decimal.Zero, decimal.NewFromInt(2))

		v.UpdatePrice(price)
		v.UpdateMargin(decimal.NewFromInt(100_000))
		v.UpdatePrice(decimal.NewFromInt(40_000))

		snapshot := v.Snapshot()
		require.NotNil(t, snapshot.MarginSats)
		assert.True(t, decimal.NewFromInt(100_000).Equal(*snapshot.MarginSats))

		// 0.001 BTC * 40,000 * 2 = 80 contracts
		assert.True(t, decimal.NewFromInt(80).Equal(snapshot.Quantity), "got %s", snapshot.Quantity)
	})
}

func TestZeroQuantityFlipsLiquidationDirection(t *testing.T) {
	calc := newTestCalculator()
	price := decimal.NewFromInt(50_000)
	leverage := decimal.NewFromInt(2)

	long := NewTradeValues(calc, models.Long, PrimaryQuantity, decimal.NewFromInt(100), leverage)
	long.UpdatePrice(price)
	long.UpdateQuantity(decimal.Zero)

	snapshot := long.Snapshot()
	require.NotNil(t, snapshot.LiquidationPrice)

	// Net zero leaves the residual position short, so the long side reports
	// the short formula's liquidation price.
	expected := calc.LiquidationPrice(price, leverage, models.Short)
	assert.True(t, expected.Equal(*snapshot.LiquidationPrice), "got %s", snapshot.LiquidationPrice)
	assert.True(t, snapshot.LiquidationPrice.GreaterThan(price))
}

func TestContractsDriveFee(t *testing.T) {
	v := NewTradeValues(newTestCalculator(), models.Long, PrimaryQuantity,
		decimal.NewFromInt(100), decimal.NewFromInt(2))

	v.UpdatePrice(decimal.NewFromInt(50_000))
	v.UpdateContracts(decimal.NewFromInt(200))

	snapshot := v.Snapshot()

	// Fee follows the 200-contract fill, not the requested 100.
	require.NotNil(t, snapshot.FeeSats)
	assert.True(t, decimal.NewFromInt(1200).Equal(*snapshot.FeeSats), "got %s", snapshot.FeeSats)
}

func TestMarginAtLeavesStateAlone(t *testing.T) {
	v := NewTradeValues(newTestCalculator(), models.Long, PrimaryQuantity,
		decimal.NewFromInt(100), decimal.NewFromInt(2))

	assert.Nil(t, v.MarginAt(decimal.NewFromInt(2)))

	v.UpdatePrice(decimal.NewFromInt(50_000))
	before := v.Snapshot()

	preview := v.MarginAt(decimal.NewFromInt(4))
	require.NotNil(t, preview)
	assert.True(t, decimal.NewFromInt(50_000).Equal(*preview), "got %s", preview)

	assert.Equal(t, before, v.Snapshot())
}
