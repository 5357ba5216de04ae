package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderState string

const (
	Submitted OrderState = "submitted"
	Rejected  OrderState = "rejected"
)

// Order is the snapshot of one side's trade values at the moment the user
// confirmed the trade. It is what gets handed over the boundary to the
// matching backend.
type Order struct {
	Id               uuid.UUID
	Symbol           string
	Direction        Direction
	Quantity         decimal.Decimal
	Leverage         decimal.Decimal
	MarginSats       int64
	Price            decimal.Decimal
	LiquidationPrice decimal.Decimal
	FeeSats          int64
	Expiry           time.Time
	State            OrderState
	CreatedAt        time.Time
}
