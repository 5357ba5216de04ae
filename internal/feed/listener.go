package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"TradeEngine/internal/domain/models"

	"github.com/nats-io/nats.go"
)

// Listener subscribes to the price tick stream and forwards every tick to
// the notifier. Ticks are drained through a buffered channel by a single
// worker so they reach the notifier in arrival order.
type Listener struct {
	log      *slog.Logger
	nc       *nats.Conn
	notifier notifier
	symbol   string
}

type notifier interface {
	UpdatePrice(tick models.PriceTick)
}

func New(log *slog.Logger, nc *nats.Conn, notifier notifier, symbol string) *Listener {
	return &Listener{
		log:      log,
		nc:       nc,
		notifier: notifier,
		symbol:   symbol,
	}
}

func (l *Listener) Process(ctx context.Context) error {
	const op = "feed.Process"

	updates := make(chan models.PriceTick, 1024)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case tick := <-updates:
				l.notifier.UpdatePrice(tick)
			}
		}
	}()

	subject := "ticks." + l.symbol
	sub, err := l.nc.Subscribe(subject, func(msg *nats.Msg) {
		var tick models.PriceTick
		if err := json.Unmarshal(msg.Data, &tick); err != nil {
			l.log.Error("invalid tick message", "op", op, "err", err)
			return
		}

		select {
		case updates <- tick:
		default:
			l.log.Warn("tick channel full, dropping tick", "op", op, "symbol", tick.Symbol)
		}
	})
	if err != nil {
		l.log.Error("failed to subscribe", "op", op, "subject", subject, "err", err)
		return fmt.Errorf("%s: %w", op, err)
	}

	go func() {
		<-ctx.Done()
		_ = sub.Unsubscribe()
	}()

	l.log.Info("listening for ticks", "subject", subject)
	return nil
}
