package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	natsbroker "TradeEngine/internal/brokers/nats"
	"TradeEngine/internal/config"
	"TradeEngine/internal/http_client"
	"TradeEngine/internal/storage/redis"

	"github.com/nats-io/nats.go"
)

// Standalone price feed: polls the exchange for bid/ask, caches the ticks in
// redis and publishes them to the tick stream the engine subscribes to.
func main() {
	cfg := config.MustLoad()

	log := slog.New(
		slog.NewJSONHandler(
			os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)

	log.Info("starting price feed",
		slog.String("env", cfg.Env),
		slog.Any("symbols", cfg.BinanceConfig.Symbols),
	)

	tickClient := http_client.New(*cfg, log)
	redisClient := redis.New(cfg.RedisCfg)

	nc, err := nats.Connect(cfg.NatsCfg.URL)
	if err != nil {
		log.Error("failed to connect to nats", "error", err)
		panic(err)
	}
	publisher, err := natsbroker.New(log, nc)
	if err != nil {
		log.Error("failed to create nats publisher", "error", err)
		panic(err)
	}
	if err := publisher.EnsureStream("TICKS-STREAM", "ticks.*"); err != nil {
		panic(err)
	}

	ctx := context.Background()
	interval := time.Duration(cfg.BinanceConfig.PollInterval) * time.Second

	for {
		ticks, err := tickClient.GetTicks()
		if err != nil {
			log.Error("failed to fetch ticks", "error", err)
			time.Sleep(interval)
			continue
		}

		if err := redisClient.SaveTicks(ctx, ticks); err != nil {
			log.Error("failed to cache ticks", "error", err)
		}

		for _, tick := range ticks {
			subject := "ticks." + tick.Symbol
			if err := publisher.Publish(ctx, subject, tick); err != nil {
				log.Error("failed to publish tick", "subject", subject, "error", err)
			}
		}

		time.Sleep(interval)
	}
}
