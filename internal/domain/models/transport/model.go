package transport

import (
	"TradeEngine/internal/domain/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type UpdateQuantityRequest struct {
	Direction models.Direction `json:"direction" validate:"required,oneof=long short"`
	Quantity  decimal.Decimal  `json:"quantity" validate:"required"`
}

type UpdateMarginRequest struct {
	Direction  models.Direction `json:"direction" validate:"required,oneof=long short"`
	MarginSats decimal.Decimal  `json:"margin_sats" validate:"required"`
}

type UpdateLeverageRequest struct {
	Direction models.Direction `json:"direction" validate:"required,oneof=long short"`
	Leverage  decimal.Decimal  `json:"leverage" validate:"required"`
}

type UpdateContractsRequest struct {
	Direction models.Direction `json:"direction" validate:"required,oneof=long short"`
	Contracts decimal.Decimal  `json:"contracts" validate:"required"`
}

type UpdateOpenQuantityRequest struct {
	Direction models.Direction `json:"direction" validate:"required,oneof=long short"`
	// Zero means the opposite position was closed.
	OpenQuantity decimal.Decimal `json:"open_quantity"`
}

type CounterpartyMarginRequest struct {
	Direction models.Direction `json:"direction" validate:"required,oneof=long short"`
	Leverage  decimal.Decimal  `json:"leverage" validate:"required"`
}

type CounterpartyMarginResponse struct {
	MarginSats *decimal.Decimal `json:"margin_sats"`
}

type OrderMatchingFeeResponse struct {
	FeeSats *decimal.Decimal `json:"fee_sats"`
}

type SubmitOrderRequest struct {
	Direction models.Direction `json:"direction" validate:"required,oneof=long short"`
}

type SubmitOrderResponse struct {
	OrderID uuid.UUID `json:"order_id"`
}

type GetOrdersResponse struct {
	Orders []models.Order `json:"orders"`
}
