package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

type Publisher struct {
	log *slog.Logger
	js  nats.JetStreamContext
}

func New(log *slog.Logger, nc *nats.Conn) (*Publisher, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, err
	}
	return &Publisher{log: log, js: js}, nil
}

// EnsureStream creates the stream if it does not exist yet.
func (p *Publisher) EnsureStream(name string, subjects ...string) error {
	const op = "nats.EnsureStream"

	_, err := p.js.AddStream(&nats.StreamConfig{
		Name:     name,
		Subjects: subjects,
	})
	if err != nil && !errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
		p.log.Error("creating stream", "op", op, "name", name, "error", err)
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (p *Publisher) Publish(ctx context.Context, subject string, msg any) error {
	const op = "nats.Publish"

	data, err := json.Marshal(msg)
	if err != nil {
		p.log.Error("marshalling message", "op", op, "error", err, "msg", msg)
		return fmt.Errorf("marshal %T: %w", msg, err)
	}

	if _, err := p.js.Publish(subject, data, nats.Context(ctx)); err != nil {
		p.log.Error("publishing message", "op", op, "subject", subject, "error", err)
		return fmt.Errorf("publishing message: %w", err)
	}

	p.log.Debug("message published", "subject", subject)
	return nil
}
