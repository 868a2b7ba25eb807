// Package events publishes store events to NATS for downstream consumers
// (order fulfillment, notifications). Publishing is best-effort: the cart
// core never fails an operation because the broker is unavailable.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// CheckoutCompletedSubject is the NATS subject for confirmed checkouts.
const CheckoutCompletedSubject = "sif.checkout.completed"

// CheckoutCompleted is emitted after a cart has been atomically cleared.
type CheckoutCompleted struct {
	OwnerID        string    `json:"ownerId"`
	TotalPaidCents int64     `json:"totalPaidCents"`
	ItemsCount     int       `json:"itemsCount"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// Publisher emits store events.
type Publisher interface {
	PublishCheckoutCompleted(ctx context.Context, event CheckoutCompleted) error
}

// NATSPublisher publishes events to a NATS broker.
type NATSPublisher struct {
	conn *nats.Conn
}

// Compile-time check that NATSPublisher implements Publisher.
var _ Publisher = (*NATSPublisher)(nil)

// NewNATSPublisher connects to the broker at url.
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("sif-server"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}

	return &NATSPublisher{conn: conn}, nil
}

// PublishCheckoutCompleted publishes the event to CheckoutCompletedSubject.
func (p *NATSPublisher) PublishCheckoutCompleted(_ context.Context, event CheckoutCompleted) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal checkout event: %w", err)
	}

	if err := p.conn.Publish(CheckoutCompletedSubject, payload); err != nil {
		return fmt.Errorf("failed to publish checkout event: %w", err)
	}

	return nil
}

// Close drains and closes the underlying connection.
func (p *NATSPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

// NoopPublisher discards all events. Used when no broker is configured.
type NoopPublisher struct{}

var _ Publisher = NoopPublisher{}

func (NoopPublisher) PublishCheckoutCompleted(context.Context, CheckoutCompleted) error {
	return nil
}
