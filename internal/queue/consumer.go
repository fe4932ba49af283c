package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// VisitLogger consumes reservation.completed and appends one line per
// visit to a log file.
type VisitLogger struct {
	url  string
	path string
	log  *zap.Logger
}

func NewVisitLogger(url, path string) *VisitLogger {
	return &VisitLogger{url: url, path: path, log: zap.L().Named("visit-consumer")}
}

// Run connects, consumes and reconnects with exponential backoff until
// ctx is cancelled.
func (v *VisitLogger) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(v.url)
		if err != nil {
			v.log.Warn("dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = v.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		v.log.Warn("consume loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (v *VisitLogger) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		v.log.Warn("set QoS failed", zap.Error(err))
	}
	if err := declare(ch); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(ReservationCompletedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := v.Handle(d.Body); err != nil {
				v.log.Error("handle message failed", zap.Error(err))
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle decodes one message body and appends it to the visit log.
func (v *VisitLogger) Handle(body []byte) error {
	var ev ReservationCompletedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(v.path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(v.path), err)
	}
	f, err := os.OpenFile(v.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open visit log: %w", err)
	}
	defer f.Close()
	return WriteVisitLine(f, ev)
}

// WriteVisitLine formats ev as a single human-readable line.
func WriteVisitLine(w io.Writer, ev ReservationCompletedEvent) error {
	games := "[" + strings.Join(ev.Games, ",") + "]"
	_, err := fmt.Fprintf(w,
		"[%s] Visit completed | reservation_id=%s | customer=%q | slot=%s %s | party=%d | games=%s | orders=%d | total=%s\n",
		ev.CompletedAt, ev.ReservationID, ev.CustomerName, ev.Date, ev.Time, ev.PartySize, games, ev.OrderCount, ev.Total)
	return err
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
