package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"TradeEngine/internal/config"
	"TradeEngine/internal/domain/models"

	"github.com/go-redis/redis/v8"
)

const prefix = "engine:binance:tick"

const tickTTL = 10 * time.Minute

type Redis struct {
	client *redis.Client
}

func New(redisConfig config.RedisConfig) *Redis {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisConfig.Host + ":" + strconv.Itoa(redisConfig.Port),
		Password: redisConfig.Password,
		DB:       redisConfig.Db,
	})

	return &Redis{
		client: redisClient,
	}
}

func (s *Redis) SaveTicks(ctx context.Context, ticks []models.PriceTick) error {
	log := slog.With("method", "SaveTicks")
	pipe := s.client.Pipeline()

	for _, tick := range ticks {
		key := fmt.Sprintf("%s:%s", prefix, tick.Symbol)
		value, _ := json.Marshal(tick)
		pipe.Set(ctx, key, value, tickTTL)
	}
	_, err := pipe.Exec(ctx)
	if err != nil {
		log.Error("failed to save ticks", "err", err)
		return fmt.Errorf("failed to save ticks: %w", err)
	}

	return nil
}

func (s *Redis) GetTick(ctx context.Context, symbol string) (models.PriceTick, error) {
	log := slog.With("method", "GetTick")

	data, err := s.client.Get(ctx, prefix+":"+symbol).Result()
	if err != nil {
		log.Error("failed to get tick", "symbol", symbol, "err", err)
		return models.PriceTick{}, fmt.Errorf("failed to get tick: %w", err)
	}

	var tick models.PriceTick
	if err := json.Unmarshal([]byte(data), &tick); err != nil {
		log.Error("failed to unmarshal tick", "data", data, "err", err)
		return models.PriceTick{}, fmt.Errorf("failed to unmarshal tick: %w", err)
	}

	log.Debug("got tick from redis", "symbol", symbol)
	return tick, nil
}

func (s *Redis) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
