package emailreadyforsending

import (
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/services"
	deliveremail "accounts/internal/core/services/deliver_email"
	"accounts/internal/rabbitmq/schema"
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Consumer struct {
	log     logging.Logger
	service services.Service[deliveremail.Input, deliveremail.Result]
}

func New(log logging.Logger, service services.Service[deliveremail.Input, deliveremail.Result]) *Consumer {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Consumer{log: log, service: service}
}

// Consume handles deliveries until the channel is drained or ctx is done.
func (c *Consumer) Consume(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case delivery, ok := <-deliveries:
			if !ok {
				return
			}
			c.Handle(ctx, delivery)
		}
	}
}

// Handle delivers a single queued email. A failed delivery is requeued once,
// a second failure or a malformed message is rejected.
func (c *Consumer) Handle(ctx context.Context, delivery amqp.Delivery) {
	email := &schema.Email{}
	if err := email.Unmarshal(delivery.Body); err != nil {
		c.log.Error(ctx, "Could not unmarshal queued email.", logging.Entry("err", err))
		c.reject(ctx, delivery)
		return
	}

	c.log.Info(ctx, "Got email ready for sending.", logging.Entry("to", email.To))
	_, err := c.service.Run(ctx, deliveremail.Input{Message: email.Message()})
	if err == nil {
		if err := delivery.Ack(false); err != nil {
			c.log.Error(ctx, "Could not ACK AMQP message.", logging.Entry("err", err))
		}
		return
	}

	c.log.Error(
		ctx,
		"Could not deliver email, service returned an error.",
		logging.Entry("to", email.To),
		logging.Entry("redelivered", delivery.Redelivered),
		logging.Entry("err", err),
	)
	if delivery.Redelivered {
		c.reject(ctx, delivery)
		return
	}
	if err := delivery.Nack(false, true); err != nil {
		c.log.Error(ctx, "Could not NACK AMQP message.", logging.Entry("err", err))
	}
}

func (c *Consumer) reject(ctx context.Context, delivery amqp.Delivery) {
	if err := delivery.Reject(false); err != nil {
		c.log.Error(ctx, "Could not reject AMQP message.", logging.Entry("err", err))
	}
}
