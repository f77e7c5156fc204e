package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/pubsub"

	"github.com/shopease/api/internal/services"
)

// PubSubEmailNotifier publishes transactional email jobs to a Pub/Sub topic.
// A downstream worker owns the actual delivery, so a publish is the only
// commitment the API makes.
type PubSubEmailNotifier struct {
	topic   *pubsub.Topic
	sender  string
	clock   func() time.Time
	marshal func(any) ([]byte, error)
}

// NewPubSubEmailNotifier constructs a Pub/Sub backed email notifier.
func NewPubSubEmailNotifier(topic *pubsub.Topic, sender string) (*PubSubEmailNotifier, error) {
	if topic == nil {
		return nil, errors.New("pubsub email notifier: topic is required")
	}
	return &PubSubEmailNotifier{
		topic:   topic,
		sender:  strings.TrimSpace(sender),
		clock:   time.Now,
		marshal: json.Marshal,
	}, nil
}

type emailJobMessage struct {
	Sender    string    `json:"sender,omitempty"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	HTML      string    `json:"html"`
	Kind      string    `json:"kind,omitempty"`
	OrderID   string    `json:"orderId,omitempty"`
	QueuedAt  time.Time `json:"queuedAt"`
}

// Send enqueues an email job message and returns the Pub/Sub message id.
func (p *PubSubEmailNotifier) Send(ctx context.Context, message services.EmailMessage) (string, error) {
	if p == nil || p.topic == nil {
		return "", errors.New("pubsub email notifier: not initialised")
	}
	recipient := strings.TrimSpace(message.Recipient)
	if recipient == "" {
		return "", errors.New("pubsub email notifier: recipient is required")
	}

	data, err := p.marshal(emailJobMessage{
		Sender:    p.sender,
		Recipient: recipient,
		Subject:   message.Subject,
		HTML:      message.HTML,
		Kind:      message.Kind,
		OrderID:   message.OrderID,
		QueuedAt:  p.clock().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("marshal email job: %w", err)
	}

	attrs := make(map[string]string)
	setAttr(attrs, "kind", message.Kind)
	setAttr(attrs, "orderId", message.OrderID)

	result := p.topic.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: attrs,
	})

	id, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("publish email job: %w", err)
	}
	return id, nil
}

func setAttr(attrs map[string]string, key string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		attrs[key] = v
	}
}

var _ services.Notifier = (*PubSubEmailNotifier)(nil)
