package notifier

import (
	"context"
	"errors"
)

var ErrDeliveryFailed = errors.New("email delivery failed")

type Message struct {
	Subject  string
	HTMLBody string
	To       string
	From     string
}

type Notifier interface {
	// Send returns nil once the message has been accepted for delivery.
	Send(ctx context.Context, message Message) error
}
