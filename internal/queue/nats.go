package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"trattoria-order-service/internal/events"

	"github.com/nats-io/nats.go"
)

// NATSPublisher mirrors domain events onto NATS subjects named after the
// event type.
type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("trattoria-orders"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

func (p *NATSPublisher) Publish(_ context.Context, evt events.Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.conn.Publish(evt.Type, body)
}

func (p *NATSPublisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}
