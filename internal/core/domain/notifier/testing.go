package notifier

import (
	"context"
	"fmt"
	"sync"
)

type FakeNotifier struct {
	Sent        []Message
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeNotifier() *FakeNotifier {
	return &FakeNotifier{Sent: make([]Message, 0, 10)}
}

func (n *FakeNotifier) Send(ctx context.Context, message Message) error {
	if n.ReturnError {
		return fmt.Errorf("could not send message to %s", message.To)
	}
	n.lock.Lock()
	defer n.lock.Unlock()
	n.Sent = append(n.Sent, message)
	return nil
}
