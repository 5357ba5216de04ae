package trade

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"TradeEngine/internal/config"
	"TradeEngine/internal/domain/models"
	"TradeEngine/internal/services/tradevalues"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValues struct {
	snapshot tradevalues.Snapshot
}

func (s *stubValues) FromDirection(models.Direction) tradevalues.Snapshot {
	return s.snapshot
}

type fakeStorage struct {
	saved []models.Order
}

func (f *fakeStorage) SaveOrder(_ context.Context, order models.Order) (uuid.UUID, error) {
	f.saved = append(f.saved, order)
	return order.Id, nil
}

func (f *fakeStorage) GetOrder(_ context.Context, id uuid.UUID) (models.Order, error) {
	for _, o := range f.saved {
		if o.Id == id {
			return o, nil
		}
	}
	return models.Order{}, errors.New("order not found")
}

func (f *fakeStorage) GetOrders(context.Context) ([]models.Order, error) {
	return f.saved, nil
}

type fakePublisher struct {
	published []any
}

func (f *fakePublisher) Publish(_ context.Context, _ string, msg any) error {
	f.published = append(f.published, msg)
	return nil
}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func readySnapshot() tradevalues.Snapshot {
	return tradevalues.Snapshot{
		Direction:        models.Long,
		Quantity:         decimal.NewFromInt(100),
		Leverage:         decimal.NewFromInt(2),
		Price:            dec(50_000),
		MarginSats:       dec(100_000),
		LiquidationPrice: dec(33_333),
		FeeSats:          dec(600),
		MaxQuantity:      dec(5_000),
		Expiry:           time.Now().UTC().Add(24 * time.Hour),
	}
}

func newTestTrade(values *stubValues, storage *fakeStorage, publisher *fakePublisher) *Trade {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	constraints := models.TradeConstraints{
		MaxLocalMarginSats:        1_000_000,
		MaxCounterpartyMarginSats: 1_000_000,
		CoordinatorLeverage:       decimal.NewFromInt(2),
		MinQuantity:               decimal.NewFromInt(1),
	}

	contractCfg := config.ContractConfig{
		Symbol:      "BTCUSDT",
		MinLeverage: 1,
		MaxLeverage: 10,
	}

	return New(log, values, storage, publisher, constraints, contractCfg)
}

func TestSubmitOrder(t *testing.T) {
	storage := &fakeStorage{}
	publisher := &fakePublisher{}
	trade := newTestTrade(&stubValues{snapshot: readySnapshot()}, storage, publisher)

	id, err := trade.SubmitOrder(context.Background(), models.Long)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	require.Len(t, storage.saved, 1)
	order := storage.saved[0]
	assert.Equal(t, id, order.Id)
	assert.Equal(t, "BTCUSDT", order.Symbol)
	assert.Equal(t, models.Long, order.Direction)
	assert.Equal(t, int64(100_000), order.MarginSats)
	assert.Equal(t, int64(600), order.FeeSats)
	assert.Equal(t, models.Submitted, order.State)

	require.Len(t, publisher.published, 1)
	assert.Equal(t, order, publisher.published[0])
}

func TestSubmitOrderWithoutPrice(t *testing.T) {
	snapshot := readySnapshot()
	snapshot.Price = nil
	snapshot.MarginSats = nil
	snapshot.LiquidationPrice = nil
	snapshot.FeeSats = nil
	snapshot.MaxQuantity = nil

	storage := &fakeStorage{}
	publisher := &fakePublisher{}
	trade := newTestTrade(&stubValues{snapshot: snapshot}, storage, publisher)

	_, err := trade.SubmitOrder(context.Background(), models.Long)

	assert.ErrorIs(t, err, ErrPriceUnknown)
	assert.Empty(t, storage.saved)
	assert.Empty(t, publisher.published)
}

func TestSubmitOrderValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*tradevalues.Snapshot)
		want   error
	}{
		{
			name:   "leverage above maximum",
			mutate: func(s *tradevalues.Snapshot) { s.Leverage = decimal.NewFromInt(50) },
			want:   ErrInvalidLeverage,
		},
		{
			name:   "quantity below minimum",
			mutate: func(s *tradevalues.Snapshot) { s.Quantity = decimal.NewFromFloat(0.5) },
			want:   ErrQuantityTooSmall,
		},
		{
			name:   "quantity above fundable maximum",
			mutate: func(s *tradevalues.Snapshot) { s.MaxQuantity = dec(50) },
			want:   ErrQuantityTooLarge,
		},
		{
			name:   "margin above channel balance",
			mutate: func(s *tradevalues.Snapshot) { s.MarginSats = dec(2_000_000) },
			want:   ErrInsufficientMargin,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snapshot := readySnapshot()
			tc.mutate(&snapshot)

			storage := &fakeStorage{}
			publisher := &fakePublisher{}
			trade := newTestTrade(&stubValues{snapshot: snapshot}, storage, publisher)

			_, err := trade.SubmitOrder(context.Background(), models.Long)

			assert.ErrorIs(t, err, tc.want)
			assert.Empty(t, storage.saved)
		})
	}
}

func TestGetOrders(t *testing.T) {
	storage := &fakeStorage{}
	publisher := &fakePublisher{}
	trade := newTestTrade(&stubValues{snapshot: readySnapshot()}, storage, publisher)

	id, err := trade.SubmitOrder(context.Background(), models.Short)
	require.NoError(t, err)

	order, err := trade.GetOrder(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, order.Id)

	orders, err := trade.GetOrders(context.Background())
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}
