package trade

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"TradeEngine/internal/config"
	"TradeEngine/internal/domain/models"
	"TradeEngine/internal/services/tradevalues"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrPriceUnknown       = errors.New("no price received yet")
	ErrInvalidLeverage    = errors.New("invalid leverage")
	ErrQuantityTooSmall   = errors.New("quantity below the contract minimum")
	ErrQuantityTooLarge   = errors.New("quantity exceeds the fundable maximum")
	ErrInsufficientMargin = errors.New("margin exceeds the available collateral")
)

// Trade turns the live trade values of one side into a submitted order:
// snapshot, validate against the channel constraints, persist, publish.
type Trade struct {
	log         *slog.Logger
	values      valuesProvider
	storage     OrderStorage
	publisher   Publisher
	constraints models.TradeConstraints
	symbol      string
	minLeverage decimal.Decimal
	maxLeverage decimal.Decimal
}

type valuesProvider interface {
	FromDirection(direction models.Direction) tradevalues.Snapshot
}

type OrderStorage interface {
	SaveOrder(ctx context.Context, order models.Order) (uuid.UUID, error)
	GetOrder(ctx context.Context, id uuid.UUID) (models.Order, error)
	GetOrders(ctx context.Context) ([]models.Order, error)
}

type Publisher interface {
	Publish(ctx context.Context, subject string, msg any) error
}

const subjectOrderSubmitted = "orders.submitted"

func New(log *slog.Logger, values valuesProvider, storage OrderStorage, publisher Publisher, constraints models.TradeConstraints, contractCfg config.ContractConfig) *Trade {
	return &Trade{
		log:         log,
		values:      values,
		storage:     storage,
		publisher:   publisher,
		constraints: constraints,
		symbol:      contractCfg.Symbol,
		minLeverage: decimal.NewFromFloat(contractCfg.MinLeverage),
		maxLeverage: decimal.NewFromFloat(contractCfg.MaxLeverage),
	}
}

func (t *Trade) SubmitOrder(ctx context.Context, direction models.Direction) (uuid.UUID, error) {
	const op = "trade.SubmitOrder"

	snapshot := t.values.FromDirection(direction)

	if snapshot.Price == nil || snapshot.MarginSats == nil || snapshot.LiquidationPrice == nil || snapshot.FeeSats == nil {
		t.log.Info("rejecting order, price feed not connected yet", "direction", direction)
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrPriceUnknown)
	}

	if err := t.validate(snapshot); err != nil {
		t.log.Info("rejecting order", "direction", direction, "err", err)
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	order := models.Order{
		Id:               uuid.New(),
		Symbol:           t.symbol,
		Direction:        direction,
		Quantity:         snapshot.Quantity,
		Leverage:         snapshot.Leverage,
		MarginSats:       snapshot.MarginSats.IntPart(),
		Price:            *snapshot.Price,
		LiquidationPrice: *snapshot.LiquidationPrice,
		FeeSats:          snapshot.FeeSats.IntPart(),
		Expiry:           snapshot.Expiry,
		State:            models.Submitted,
		CreatedAt:        time.Now().UTC(),
	}

	id, err := t.storage.SaveOrder(ctx, order)
	if err != nil {
		t.log.Error("failed to save order", "error", err, "orderId", order.Id)
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := t.publisher.Publish(ctx, subjectOrderSubmitted, order); err != nil {
		t.log.Error("failed to publish submitted order", "error", err, "orderId", id)
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	t.log.Info("order submitted", "orderId", id, "direction", direction, "quantity", snapshot.Quantity)
	return id, nil
}

func (t *Trade) GetOrder(ctx context.Context, id uuid.UUID) (models.Order, error) {
	const op = "trade.GetOrder"

	order, err := t.storage.GetOrder(ctx, id)
	if err != nil {
		t.log.Error("failed to get order", "error", err, "orderId", id)
		return models.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	return order, nil
}

func (t *Trade) GetOrders(ctx context.Context) ([]models.Order, error) {
	const op = "trade.GetOrders"

	orders, err := t.storage.GetOrders(ctx)
	if err != nil {
		t.log.Error("failed to get orders", "error", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return orders, nil
}

func (t *Trade) validate(snapshot tradevalues.Snapshot) error {
	if snapshot.Leverage.LessThan(t.minLeverage) || snapshot.Leverage.GreaterThan(t.maxLeverage) {
		return ErrInvalidLeverage
	}
	if snapshot.Quantity.LessThan(t.constraints.MinQuantity) {
		return ErrQuantityTooSmall
	}
	if snapshot.MaxQuantity != nil && snapshot.Quantity.GreaterThan(*snapshot.MaxQuantity) {
		return ErrQuantityTooLarge
	}
	if snapshot.MarginSats.GreaterThan(decimal.NewFromInt(t.constraints.MaxLocalMarginSats)) {
		return ErrInsufficientMargin
	}
	return nil
}
