package events

import (
	"context"
	"errors"
	"time"
)

const (
	TypeOrderPlaced           = "order.placed"
	TypeKitchenStatusUpdated  = "kitchen.order.status.updated"
	TypeDeliveryStatusUpdated = "delivery.order.status.updated"
	TypeDeliveryDelayed       = "delivery.order.delayed"
)

// Event is the envelope shared by the message bus, NATS subjects and the
// websocket hub. Type doubles as the routing key / subject.
type Event struct {
	Type       string    `json:"type"`
	OrderID    int64     `json:"orderId,omitempty"`
	Status     string    `json:"status,omitempty"`
	Payload    any       `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func New(eventType string, orderID int64, status string, payload any) Event {
	return Event{
		Type:       eventType,
		OrderID:    orderID,
		Status:     status,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, evt Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
