package tradevalues

import (
	"time"

	"TradeEngine/internal/domain/models"

	"github.com/shopspring/decimal"
)

// PrimaryField tells a TradeValues which of its inputs the user is editing
// directly. When a price tick arrives, the primary field is kept and the
// other one is re-derived from it.
type PrimaryField string

const (
	PrimaryQuantity PrimaryField = "quantity"
	PrimaryMargin   PrimaryField = "margin"
)

// Calculator is the contract calculation oracle the entity depends on. All
// methods are pure; margins and fees are in sats.
type Calculator interface {
	Margin(price, quantity, leverage decimal.Decimal) decimal.Decimal
	Quantity(price, marginSats, leverage decimal.Decimal) decimal.Decimal
	LiquidationPrice(price, leverage decimal.Decimal, direction models.Direction) decimal.Decimal
	OrderMatchingFee(quantity, price decimal.Decimal) decimal.Decimal
	MaxQuantity(price, leverage, openQuantity decimal.Decimal) decimal.Decimal
	ExpiryTimestamp(now time.Time) time.Time
}

// TradeValues holds one side's current trade parameters together with every
// field derived from them. A mutator re-derives all of its dependents before
// returning: the derived fields are either consistent with the current
// inputs or nil because no price has arrived yet. They are never stale.
type TradeValues struct {
	calc      Calculator
	direction models.Direction
	primary   PrimaryField

	quantity     decimal.Decimal
	contracts    decimal.Decimal
	openQuantity decimal.Decimal
	leverage     decimal.Decimal

	price            *decimal.Decimal
	margin           *decimal.Decimal
	liquidationPrice *decimal.Decimal
	fee              *decimal.Decimal
	maxQuantity      *decimal.Decimal

	expiry time.Time
}

func NewTradeValues(calc Calculator, direction models.Direction, primary PrimaryField, quantity, leverage decimal.Decimal) *TradeValues {
	return &TradeValues{
		calc:      calc,
		direction: direction,
		primary:   primary,
		quantity:  quantity,
		leverage:  leverage,
		expiry:    calc.ExpiryTimestamp(time.Now().UTC()),
	}
}

// UpdateQuantity sets the requested quantity and re-derives the margin. With
// no price yet this is a no-op on the derived fields.
func (v *TradeValues) UpdateQuantity(quantity decimal.Decimal) {
	v.quantity = quantity
	v.recalculateMargin()
}

// UpdateContracts sets the fill quantity. Fee and liquidation price follow
// the fill, not the requested quantity.
func (v *TradeValues) UpdateContracts(contracts decimal.Decimal) {
	v.contracts = contracts
	v.recalculateMargin()
	v.recalculateFee()
	v.recalculateLiquidationPrice()
}

// UpdateMargin sets the margin and re-derives the quantity from it.
func (v *TradeValues) UpdateMargin(marginSats decimal.Decimal) {
	v.margin = &marginSats
	v.recalculateQuantity()
	v.recalculateFee()
	v.recalculateMaxQuantity()
}

// UpdateLeverage re-derives the required collateral at the new leverage. The
// quantity is invariant: changing leverage never silently changes the user's
// notional exposure.
func (v *TradeValues) UpdateLeverage(leverage decimal.Decimal) {
	v.leverage = leverage
	v.recalculateMargin()
	v.recalculateLiquidationPrice()
	v.recalculateMaxQuantity()
}

// UpdatePrice applies a fresh reference price (ask for long, bid for short)
// and re-derives whichever of quantity/margin is not the primary field, plus
// everything downstream of the price.
func (v *TradeValues) UpdatePrice(price decimal.Decimal) {
	v.price = &price

	if v.primary == PrimaryMargin {
		v.recalculateQuantity()
	} else {
		v.recalculateMargin()
	}

	v.recalculateLiquidationPrice()
	v.recalculateFee()
	v.recalculateMaxQuantity()
}

// UpdateOpenQuantity records the quantity held in an opposite open position
// and refreshes the quantity ceiling, which can be traded on top of it.
func (v *TradeValues) UpdateOpenQuantity(openQuantity decimal.Decimal) {
	v.openQuantity = openQuantity
	v.recalculateMaxQuantity()
}

// MarginAt answers what the margin would be at a different leverage without
// touching any state. Used to preview the counterparty's collateral.
func (v *TradeValues) MarginAt(leverage decimal.Decimal) *decimal.Decimal {
	if v.price == nil {
		return nil
	}
	margin := v.calc.Margin(*v.price, v.quantity, leverage)
	return &margin
}

func (v *TradeValues) recalculateMargin() {
	if v.price == nil {
		v.margin = nil
		return
	}
	margin := v.calc.Margin(*v.price, v.quantity, v.leverage)
	v.margin = &margin
}

func (v *TradeValues) recalculateQuantity() {
	if v.price == nil || v.margin == nil {
		return
	}
	v.quantity = v.calc.Quantity(*v.price, *v.margin, v.leverage)
}

func (v *TradeValues) recalculateLiquidationPrice() {
	if v.price == nil {
		v.liquidationPrice = nil
		return
	}

	// A trade netting the position to exactly zero leaves any residual
	// position sitting in the opposite direction, so the liquidation price
	// follows that direction's formula.
	direction := v.direction
	if v.quantity.IsZero() {
		direction = direction.Opposite()
	}

	liquidationPrice := v.calc.LiquidationPrice(*v.price, v.leverage, direction)
	v.liquidationPrice = &liquidationPrice
}

func (v *TradeValues) recalculateFee() {
	if v.price == nil {
		v.fee = nil
		return
	}
	fee := v.calc.OrderMatchingFee(v.fillQuantity(), *v.price)
	v.fee = &fee
}

func (v *TradeValues) recalculateMaxQuantity() {
	if v.price == nil {
		v.maxQuantity = nil
		return
	}
	maxQuantity := v.calc.MaxQuantity(*v.price, v.leverage, v.openQuantity)
	v.maxQuantity = &maxQuantity
}

// fillQuantity is what actually gets matched: the explicit fill if one was
// set, the requested quantity otherwise.
func (v *TradeValues) fillQuantity() decimal.Decimal {
	if !v.contracts.IsZero() {
		return v.contracts
	}
	return v.quantity
}

// Snapshot is an immutable view of a TradeValues for readers outside the
// notifier's lock. Nil pointers mean the price is not known yet.
type Snapshot struct {
	Direction        models.Direction `json:"direction"`
	Quantity         decimal.Decimal  `json:"quantity"`
	Contracts        decimal.Decimal  `json:"contracts"`
	OpenQuantity     decimal.Decimal  `json:"open_quantity"`
	Leverage         decimal.Decimal  `json:"leverage"`
	Price            *decimal.Decimal `json:"price"`
	MarginSats       *decimal.Decimal `json:"margin_sats"`
	LiquidationPrice *decimal.Decimal `json:"liquidation_price"`
	FeeSats          *decimal.Decimal `json:"fee_sats"`
	MaxQuantity      *decimal.Decimal `json:"max_quantity"`
	Expiry           time.Time        `json:"expiry"`
}

func (v *TradeValues) Snapshot() Snapshot {
	return Snapshot{
		Direction:        v.direction,
		Quantity:         v.quantity,
		Contracts:        v.contracts,
		OpenQuantity:     v.openQuantity,
		Leverage:         v.leverage,
		Price:            copyDecimal(v.price),
		MarginSats:       copyDecimal(v.margin),
		LiquidationPrice: copyDecimal(v.liquidationPrice),
		FeeSats:          copyDecimal(v.fee),
		MaxQuantity:      copyDecimal(v.maxQuantity),
		Expiry:           v.expiry,
	}
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
