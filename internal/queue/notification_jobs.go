package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"trattoria-order-service/internal/events"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange           = "trattoria.events"
	EventsQueue              = "trattoria.notifications"
	NotificationJobsExchange = "trattoria.notification_jobs"
	NotificationJobsQueue    = "trattoria.notification_jobs.process"
	NotificationJobsDLQ      = "trattoria.notification_jobs.dlq"
	NotificationJobsRK       = "process"
	NotificationJobsDeadRK   = "dead"
)

// JobPublisher is the part of Client the event translator needs.
type JobPublisher interface {
	PublishJSON(ctx context.Context, exchange, routingKey string, payload any) error
}

type incomingEvent struct {
	Type    string          `json:"type"`
	OrderID int64           `json:"orderId"`
	Status  string          `json:"status"`
	Payload json.RawMessage `json:"payload"`
}

type deliveryPayload struct {
	ID     int64 `json:"id"`
	Client struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Phone     string `json:"phone"`
	} `json:"client"`
}

type placedPayload struct {
	DeliveryType  string `json:"deliveryType"`
	PaymentMethod string `json:"paymentMethod"`
	Total         string `json:"total"`
	ItemCount     int    `json:"itemCount"`
}

// EnsureEventsTopology declares the topic exchange, the notifications queue
// and binds it to every order event.
func EnsureEventsTopology(qc *Client) error {
	if qc == nil {
		return nil
	}
	if err := qc.EnsureExchange(EventsExchange); err != nil {
		return err
	}
	if _, err := qc.EnsureQueue(EventsQueue); err != nil {
		return err
	}
	// '#' matches multi-segment keys like 'kitchen.order.status.updated'.
	for _, rk := range []string{"order.#", "kitchen.#", "delivery.#"} {
		if err := qc.BindQueue(EventsQueue, EventsExchange, rk); err != nil {
			return err
		}
	}
	return nil
}

func EnsureNotificationJobsTopology(ctx context.Context, qc *Client) error {
	if qc == nil {
		return nil
	}

	if err := qc.EnsureExchangeKind(NotificationJobsExchange, "direct"); err != nil {
		return err
	}

	if _, err := qc.EnsureQueue(NotificationJobsDLQ); err != nil {
		return err
	}
	if err := qc.BindQueue(NotificationJobsDLQ, NotificationJobsExchange, NotificationJobsDeadRK); err != nil {
		return err
	}

	_, err := qc.EnsureQueueWithArgs(NotificationJobsQueue, amqp.Table{
		"x-dead-letter-exchange":    NotificationJobsExchange,
		"x-dead-letter-routing-key": NotificationJobsDeadRK,
	})
	if err != nil {
		return err
	}
	return qc.BindQueue(NotificationJobsQueue, NotificationJobsExchange, NotificationJobsRK)
}

// ProcessEventToJobs translates a domain event into zero or more notification
// jobs. Unknown or irrelevant events are acknowledged without output.
func ProcessEventToJobs(ctx context.Context, qc JobPublisher, body []byte) error {
	if qc == nil {
		return nil
	}

	var evt incomingEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return err
	}
	if strings.TrimSpace(evt.Type) == "" {
		return nil
	}

	kind, payload, err := jobForEvent(evt)
	if err != nil {
		return err
	}
	if kind == "" {
		return nil
	}

	job := map[string]any{
		"kind":      kind,
		"payload":   payload,
		"createdAt": time.Now().UTC().Format(time.RFC3339),
		"attempt":   1,
	}
	return qc.PublishJSON(ctx, NotificationJobsExchange, NotificationJobsRK, job)
}

func jobForEvent(evt incomingEvent) (string, map[string]any, error) {
	switch evt.Type {
	case events.TypeOrderPlaced:
		var p placedPayload
		if err := decodePayload(evt.Payload, &p); err != nil {
			return "", nil, err
		}
		return "staff.order_placed", map[string]any{
			"deliveryType":  p.DeliveryType,
			"paymentMethod": p.PaymentMethod,
			"total":         p.Total,
			"itemCount":     p.ItemCount,
		}, nil
	case events.TypeDeliveryDelayed:
		var p deliveryPayload
		if err := decodePayload(evt.Payload, &p); err != nil {
			return "", nil, err
		}
		if strings.TrimSpace(p.Client.Phone) == "" {
			return "", nil, nil
		}
		return "customer.delivery_delayed", map[string]any{
			"orderId": fmt.Sprintf("%d", evt.OrderID),
			"phone":   p.Client.Phone,
			"name":    strings.TrimSpace(p.Client.FirstName + " " + p.Client.LastName),
		}, nil
	case events.TypeDeliveryStatusUpdated:
		pushStatus := mapDeliveryStatusToPushStatus(evt.Status)
		if pushStatus == "" {
			return "", nil, nil
		}
		var p deliveryPayload
		if err := decodePayload(evt.Payload, &p); err != nil {
			return "", nil, err
		}
		return "customer.delivery_status", map[string]any{
			"orderId": fmt.Sprintf("%d", evt.OrderID),
			"status":  pushStatus,
			"phone":   p.Client.Phone,
		}, nil
	default:
		return "", nil, nil
	}
}

func decodePayload(raw json.RawMessage, out any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func mapDeliveryStatusToPushStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "in delivery":
		return "ON_THE_WAY"
	case "delivered":
		return "DELIVERED"
	default:
		return ""
	}
}
