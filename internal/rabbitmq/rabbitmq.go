package rabbitmq

import (
	"accounts/internal/core/domain/logging"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const RECONNECT_DELAY = 3 * time.Second

// Topology names used by the email delivery pipeline.
type Topology struct {
	Exchange   string
	Queue      string
	RoutingKey string
}

// Declare creates a durable direct exchange and a durable queue bound to it.
func (t Topology) Declare(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(t.Exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return fmt.Errorf("could not declare exchange %q: %w", t.Exchange, err)
	}
	if _, err := ch.QueueDeclare(t.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("could not declare queue %q: %w", t.Queue, err)
	}
	if err := ch.QueueBind(t.Queue, t.RoutingKey, t.Exchange, false, nil); err != nil {
		return fmt.Errorf("could not bind queue %q: %w", t.Queue, err)
	}
	return nil
}

// Connection re-dials the broker whenever the underlying connection is lost.
type Connection struct {
	conn *amqp.Connection
	lock sync.RWMutex
	log  logging.Logger
}

func Dial(url string, log logging.Logger) (*Connection, error) {
	if log == nil {
		return nil, fmt.Errorf("log argument must not be nil")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	connection := &Connection{conn: conn, log: log}
	go connection.watch(url)
	return connection, nil
}

func (c *Connection) watch(url string) {
	ctx := context.Background()
	for {
		reason, ok := <-c.current().NotifyClose(make(chan *amqp.Error, 1))
		if !ok {
			c.log.Info(ctx, "RabbitMQ connection closed.")
			return
		}
		c.log.Warning(ctx, "RabbitMQ connection lost.", logging.Entry("reason", reason.Error()))
		for {
			time.Sleep(RECONNECT_DELAY)
			conn, err := amqp.Dial(url)
			if err != nil {
				c.log.Error(ctx, "RabbitMQ reconnect failed.", logging.Entry("err", err))
				continue
			}
			c.lock.Lock()
			c.conn = conn
			c.lock.Unlock()
			c.log.Info(ctx, "RabbitMQ reconnected.")
			break
		}
	}
}

func (c *Connection) current() *amqp.Connection {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.conn
}

func (c *Connection) Close() error {
	return c.current().Close()
}

// Channel opens a channel that is reopened after failures. The setup function
// runs on every (re)opened channel, so topology and confirm mode survive reconnects.
func (c *Connection) Channel(setup func(*amqp.Channel) error) (*Channel, error) {
	ch, err := c.open(setup)
	if err != nil {
		return nil, err
	}
	channel := &Channel{ch: ch, log: c.log}
	go channel.watch(c, setup)
	return channel, nil
}

func (c *Connection) open(setup func(*amqp.Channel) error) (*amqp.Channel, error) {
	ch, err := c.current().Channel()
	if err != nil {
		return nil, err
	}
	if setup != nil {
		if err := setup(ch); err != nil {
			ch.Close()
			return nil, err
		}
	}
	return ch, nil
}

type Channel struct {
	ch     *amqp.Channel
	lock   sync.RWMutex
	closed int32
	log    logging.Logger
}

func (ch *Channel) watch(c *Connection, setup func(*amqp.Channel) error) {
	ctx := context.Background()
	for {
		reason, ok := <-ch.current().NotifyClose(make(chan *amqp.Error, 1))
		if !ok || ch.IsClosed() {
			ch.Close()
			return
		}
		c.log.Warning(ctx, "RabbitMQ channel closed.", logging.Entry("reason", reason.Error()))
		for {
			time.Sleep(RECONNECT_DELAY)
			reopened, err := c.open(setup)
			if err != nil {
				c.log.Error(ctx, "RabbitMQ channel reopen failed.", logging.Entry("err", err))
				continue
			}
			ch.lock.Lock()
			ch.ch = reopened
			ch.lock.Unlock()
			c.log.Info(ctx, "RabbitMQ channel reopened.")
			break
		}
	}
}

func (ch *Channel) current() *amqp.Channel {
	ch.lock.RLock()
	defer ch.lock.RUnlock()
	return ch.ch
}

// IsClosed reports whether Close has been called explicitly.
func (ch *Channel) IsClosed() bool {
	return atomic.LoadInt32(&ch.closed) == 1
}

func (ch *Channel) Close() error {
	if !atomic.CompareAndSwapInt32(&ch.closed, 0, 1) {
		return amqp.ErrClosed
	}
	return ch.current().Close()
}

// PublishWithConfirm publishes the message and waits until the broker acknowledges it.
// The channel must be in confirm mode.
func (ch *Channel) PublishWithConfirm(
	ctx context.Context,
	exchange string,
	routingKey string,
	msg amqp.Publishing,
) error {
	confirmation, err := ch.current().PublishWithDeferredConfirmWithContext(ctx, exchange, routingKey, true, false, msg)
	if err != nil {
		return err
	}
	if confirmation == nil {
		return fmt.Errorf("channel is not in confirm mode")
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-confirmation.Done():
	}
	if !confirmation.Acked() {
		return fmt.Errorf("message was nacked by the broker")
	}
	return nil
}

// Consume returns deliveries that keep flowing across channel reopenings until Close is called.
func (ch *Channel) Consume(queue string, prefetch int) <-chan amqp.Delivery {
	deliveries := make(chan amqp.Delivery)
	ctx := context.Background()

	go func() {
		defer close(deliveries)
		for {
			current := ch.current()
			if err := current.Qos(prefetch, 0, false); err != nil {
				ch.log.Error(ctx, "Could not set QoS.", logging.Entry("err", err))
			}
			d, err := current.Consume(queue, "", false, false, false, false, nil)
			if err != nil {
				ch.log.Error(ctx, "Consume failed.", logging.Entry("queue", queue), logging.Entry("err", err))
				time.Sleep(RECONNECT_DELAY)
				continue
			}
			for msg := range d {
				deliveries <- msg
			}
			// The closed flag may be set shortly after the delivery channel drains.
			time.Sleep(RECONNECT_DELAY)
			if ch.IsClosed() {
				ch.log.Info(ctx, "Channel is closed, stop consuming.", logging.Entry("queue", queue))
				return
			}
		}
	}()

	return deliveries
}
