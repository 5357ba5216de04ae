package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"TradeEngine/internal/domain/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	uniqueViolation = "23505"
)

var (
	ErrOrderNotExists     = errors.New("order does not exist")
	ErrOrderAlreadyExists = errors.New("order already exists")
)

type Storage struct {
	db *pgxpool.Pool
}

func New(connString string) (*Storage, error) {
	const op = "postgresql.New"
	log := slog.With("op", op)

	db, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		log.Error("Failed to connect to database", "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	err = db.Ping(context.Background())
	if err != nil {
		log.Error("Failed to ping database", "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) SaveOrder(ctx context.Context, order models.Order) (uuid.UUID, error) {
	const op = "postgresql.SaveOrder"
	log := slog.With("op", op)

	const querySaveOrder = `INSERT INTO orders(id, symbol, direction, quantity, leverage, margin_sats,
		price, liquidation_price, fee_sats, expiry, state, created)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`

	var orderId uuid.UUID
	err := s.db.QueryRow(ctx, querySaveOrder,
		order.Id,
		order.Symbol,
		order.Direction,
		order.Quantity,
		order.Leverage,
		order.MarginSats,
		order.Price,
		order.LiquidationPrice,
		order.FeeSats,
		order.Expiry,
		order.State,
		order.CreatedAt,
	).Scan(&orderId)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			log.Error("Order already exists", "orderId", order.Id)
			return uuid.Nil, ErrOrderAlreadyExists
		}
		log.Error("Failed to save order", "orderId", order.Id, "err", err)
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return orderId, nil
}

func (s *Storage) GetOrder(ctx context.Context, id uuid.UUID) (models.Order, error) {
	const op = "postgresql.GetOrder"
	log := slog.With("op", op)

	const queryGetOrder = `SELECT id, symbol, direction, quantity, leverage, margin_sats,
		price, liquidation_price, fee_sats, expiry, state, created
		FROM orders WHERE id = $1`

	var order models.Order
	err := s.db.QueryRow(ctx, queryGetOrder, id).Scan(
		&order.Id,
		&order.Symbol,
		&order.Direction,
		&order.Quantity,
		&order.Leverage,
		&order.MarginSats,
		&order.Price,
		&order.LiquidationPrice,
		&order.FeeSats,
		&order.Expiry,
		&order.State,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Order{}, ErrOrderNotExists
		}
		log.Error("Failed to get order", "orderId", id, "err", err)
		return models.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	return order, nil
}

func (s *Storage) GetOrders(ctx context.Context) ([]models.Order, error) {
	const op = "postgresql.GetOrders"
	log := slog.With("op", op)

	const queryGetOrders = `SELECT id, symbol, direction, quantity, leverage, margin_sats,
		price, liquidation_price, fee_sats, expiry, state, created
		FROM orders ORDER BY created DESC`

	rows, err := s.db.Query(ctx, queryGetOrders)
	if err != nil {
		log.Error("Failed to get orders", "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		err := rows.Scan(
			&order.Id,
			&order.Symbol,
			&order.Direction,
			&order.Quantity,
			&order.Leverage,
			&order.MarginSats,
			&order.Price,
			&order.LiquidationPrice,
			&order.FeeSats,
			&order.Expiry,
			&order.State,
			&order.CreatedAt,
		)
		if err != nil {
			log.Error("Failed to scan order", "err", err)
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return orders, nil
}
