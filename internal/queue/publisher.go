package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher sends completed-visit events to RabbitMQ.  It dials per
// publish, so a broker outage only affects the events raised during it.
type Publisher struct {
	url string
	log *zap.Logger
}

func NewPublisher(url string) *Publisher {
	return &Publisher{url: url, log: zap.L().Named("publisher")}
}

// PublishReservationCompleted publishes ev to the reservation.completed
// queue as a persistent JSON message.  Errors are logged and returned so
// the caller can choose to ignore them.
func (p *Publisher) PublishReservationCompleted(ctx context.Context, ev ReservationCompletedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warn("dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	if err := declare(ch); err != nil {
		p.log.Warn("queue declare failed", zap.Error(err))
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",                        // default exchange
		ReservationCompletedQueue, // routing key = queue name
		false,                     // mandatory
		false,                     // immediate
		pub,
	); err != nil {
		p.log.Warn("publish failed", zap.String("reservation_id", ev.ReservationID), zap.Error(err))
		return err
	}
	p.log.Debug("event published", zap.String("reservation_id", ev.ReservationID))
	return nil
}

// declare makes sure the durable queue exists (idempotent).
func declare(ch *amqp.Channel) error {
	_, err := ch.QueueDeclare(ReservationCompletedQueue, true, false, false, false, nil)
	return err
}
