package emailqueue

import (
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/notifier"
	"accounts/internal/rabbitmq/schema"
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Publisher interface {
	PublishWithConfirm(ctx context.Context, exchange string, routingKey string, msg amqp.Publishing) error
}

// RabbitMQ is a notifier that hands messages over to the email queue.
// A message counts as sent once the broker has confirmed it.
type RabbitMQ struct {
	log        logging.Logger
	publisher  Publisher
	exchange   string
	routingKey string
	now        func() time.Time
}

func NewRabbitMQ(
	log logging.Logger,
	publisher Publisher,
	exchange string,
	routingKey string,
	now func() time.Time,
) *RabbitMQ {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if publisher == nil {
		panic(e.NewNilArgumentError("publisher"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &RabbitMQ{log: log, publisher: publisher, exchange: exchange, routingKey: routingKey, now: now}
}

func (s *RabbitMQ) Send(ctx context.Context, message notifier.Message) error {
	body, err := schema.NewEmail(message, s.now()).Marshal()
	if err != nil {
		return fmt.Errorf("could not marshal email: %w", err)
	}
	err = s.publisher.PublishWithConfirm(ctx, s.exchange, s.routingKey, amqp.Publishing{
		ContentType:  schema.CONTENT_TYPE,
		DeliveryMode: amqp.Persistent,
		Timestamp:    s.now(),
		Body:         body,
	})
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("exchange", s.exchange), logging.Entry("RK", s.routingKey))
		return err
	}
	s.log.Info(
		ctx,
		"Email has been queued for delivery.",
		logging.Entry("exchange", s.exchange),
		logging.Entry("RK", s.routingKey),
		logging.Entry("to", message.To),
	)
	return nil
}
