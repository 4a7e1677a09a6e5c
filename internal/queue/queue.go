package queue

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"trattoria-order-service/internal/events"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel

	publishMu sync.Mutex
}

func New(url string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &Client{conn: conn, ch: ch}, nil
}

func (c *Client) Close() error {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Client) EnsureExchange(name string) error {
	return c.EnsureExchangeKind(name, "topic")
}

func (c *Client) EnsureExchangeKind(name string, kind string) error {
	if kind == "" {
		kind = "topic"
	}
	return c.ch.ExchangeDeclare(name, kind, true, false, false, false, nil)
}

func (c *Client) EnsureQueue(name string) (amqp.Queue, error) {
	return c.EnsureQueueWithArgs(name, nil)
}

func (c *Client) EnsureQueueWithArgs(name string, args amqp.Table) (amqp.Queue, error) {
	return c.ch.QueueDeclare(name, true, false, false, false, args)
}

func (c *Client) BindQueue(queueName, exchange, routingKey string) error {
	return c.ch.QueueBind(queueName, routingKey, exchange, false, nil)
}

func (c *Client) PublishJSON(ctx context.Context, exchange, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.publish(ctx, exchange, routingKey, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
		Timestamp:   time.Now(),
	})
}

func (c *Client) publish(ctx context.Context, exchange, routingKey string, msg amqp.Publishing) error {
	c.publishMu.Lock()
	defer c.publishMu.Unlock()
	return c.ch.PublishWithContext(ctx, exchange, routingKey, false, false, msg)
}

// Publish sends a domain event to the events exchange using the event type as
// the routing key.
func (c *Client) Publish(ctx context.Context, evt events.Event) error {
	return c.PublishJSON(ctx, EventsExchange, evt.Type, evt)
}

// DrainEvents pulls up to max messages from the events queue and translates
// each into notification jobs. Failed messages are requeued. Used by the
// cron worker mode instead of a long-lived consumer.
func (c *Client) DrainEvents(ctx context.Context, max int) (int, []error) {
	processed := 0
	var errs []error
	for i := 0; i < max; i++ {
		msg, ok, err := c.ch.Get(EventsQueue, false)
		if err != nil {
			errs = append(errs, err)
			break
		}
		if !ok {
			break
		}

		processed++
		if err := ProcessEventToJobs(ctx, c, msg.Body); err != nil {
			errs = append(errs, err)
			_ = msg.Nack(false, true)
			continue
		}
		_ = msg.Ack(false)
	}
	return processed, errs
}
