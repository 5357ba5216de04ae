package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	natsbroker "TradeEngine/internal/brokers/nats"
	"TradeEngine/internal/config"
	feedpkg "TradeEngine/internal/feed"
	"TradeEngine/internal/services/cfd"
	"TradeEngine/internal/services/trade"
	"TradeEngine/internal/services/tradevalues"
	"TradeEngine/internal/storage/postgres"
	"TradeEngine/internal/storage/redis"
	handler "TradeEngine/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting trade engine",
		slog.String("env", cfg.Env),
		slog.String("symbol", cfg.ContractCfg.Symbol),
	)

	connString := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.PostgresCfg.Username,
		cfg.PostgresCfg.Password,
		cfg.PostgresCfg.Host,
		cfg.PostgresCfg.Port,
		cfg.PostgresCfg.Database)

	storage, err := postgres.New(connString)
	if err != nil {
		log.Error("failed to connect to postgres", "error", err)
		panic(err)
	}

	redisClient := redis.New(cfg.RedisCfg)

	nc, err := nats.Connect(cfg.NatsCfg.URL)
	if err != nil {
		log.Error("failed to connect to nats", "error", err)
		panic(err)
	}
	log.Info("connected to nats broker", "url", cfg.NatsCfg.URL)

	publisher, err := natsbroker.New(log, nc)
	if err != nil {
		log.Error("failed to create nats publisher", "error", err)
		panic(err)
	}
	if err := publisher.EnsureStream("ORDERS-STREAM", "orders.*"); err != nil {
		panic(err)
	}

	calculator := cfd.NewService(cfg.ContractCfg, cfg.Constraints)

	notifier := tradevalues.NewNotifier(log, calculator,
		decimal.NewFromFloat(cfg.ContractCfg.DefaultQuantity),
		decimal.NewFromFloat(cfg.ContractCfg.DefaultLeverage),
		tradevalues.PrimaryQuantity)

	notifier.Subscribe(func() {
		log.Debug("trade values changed")
	})

	ctx := context.Background()

	// Warm both sides up from the cached tick, if the feed already ran.
	if tick, err := redisClient.GetTick(ctx, cfg.ContractCfg.Symbol); err == nil {
		notifier.UpdatePrice(tick)
	}

	listener := feedpkg.New(log, nc, notifier, cfg.ContractCfg.Symbol)
	if err := listener.Process(ctx); err != nil {
		panic(err)
	}

	tradeService := trade.New(log, notifier, storage, publisher, calculator.Constraints(), cfg.ContractCfg)

	validate := validator.New()
	tradeHandler := handler.NewTradeHandler(log, notifier, tradeService, validate)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Mount("/", tradeHandler.Routes())

	log.Info("Starting server on " + cfg.ServerCfg.Port)
	if err := http.ListenAndServe(cfg.ServerCfg.Port, r); err != nil {
		log.Error("Server failed", "error", err)
	}
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal, envDev:
		log = slog.New(
			slog.NewJSONHandler(
				os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(
				os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(
				os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
