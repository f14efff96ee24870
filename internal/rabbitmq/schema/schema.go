package schema

import (
	"accounts/internal/core/domain/notifier"
	"encoding/json"
	"fmt"
	"time"
)

const CONTENT_TYPE = "application/json"

// Email is the queued representation of an outgoing message.
type Email struct {
	Subject  string    `json:"subject"`
	HTMLBody string    `json:"html_body"`
	To       string    `json:"to"`
	From     string    `json:"from,omitempty"`
	QueuedAt time.Time `json:"queued_at"`
}

func NewEmail(m notifier.Message, at time.Time) *Email {
	return &Email{Subject: m.Subject, HTMLBody: m.HTMLBody, To: m.To, From: m.From, QueuedAt: at}
}

func (e *Email) Message() notifier.Message {
	return notifier.Message{Subject: e.Subject, HTMLBody: e.HTMLBody, To: e.To, From: e.From}
}

func (e *Email) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

func (e *Email) Unmarshal(data []byte) error {
	if err := json.Unmarshal(data, e); err != nil {
		return err
	}
	if e.To == "" {
		return fmt.Errorf("email has no recipient")
	}
	return nil
}
