package delivery

import (
	"context"
	"net/http"
	"sync"
	"time"

	"trattoria-order-service/internal/events"

	"go.uber.org/zap"
)

type Status string

const (
	StatusReady      Status = "ready"
	StatusInDelivery Status = "in delivery"
	StatusDelivered  Status = "delivered"
)

const (
	ActionInDelivery = "in-delivery"
	ActionDelivered  = "delivered"
	ActionDelayed    = "delayed"
)

var allowedTransitions = map[Status][]Status{
	StatusReady:      {StatusInDelivery},
	StatusInDelivery: {StatusDelivered},
	StatusDelivered:  {},
}

func isValidTransition(current, next Status) bool {
	for _, s := range allowedTransitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

type Address struct {
	Street          string `json:"street"`
	BuildingNumber  string `json:"buildingNumber"`
	ApartmentNumber string `json:"apartmentNumber,omitempty"`
	City            string `json:"city"`
	PostalCode      string `json:"postalCode"`
	Floor           string `json:"floor,omitempty"`
	Staircase       string `json:"staircase,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

type Client struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

func (c Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

type Item struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type Order struct {
	ID        int64      `json:"id"`
	Status    Status     `json:"status"`
	Address   Address    `json:"address"`
	Client    Client     `json:"client"`
	Items     []Item     `json:"items"`
	Delayed   bool       `json:"delayed"`
	DelayedAt *time.Time `json:"delayedAt,omitempty"`
	Actions   []string   `json:"actions"`
}

// Actions lists the buttons offered for an order's current status.
func Actions(o Order) []string {
	switch o.Status {
	case StatusReady:
		return []string{ActionInDelivery}
	case StatusInDelivery:
		return []string{ActionDelivered, ActionDelayed}
	default:
		return []string{}
	}
}

func (o Order) clone() Order {
	out := o
	out.Items = append([]Item(nil), o.Items...)
	if o.DelayedAt != nil {
		t := *o.DelayedAt
		out.DelayedAt = &t
	}
	out.Actions = Actions(o)
	return out
}

// Board is the in-memory delivery queue. Status only moves forward, one
// step at a time.
type Board struct {
	mu        sync.RWMutex
	orders    []Order
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewBoard(orders []Order, publisher events.Publisher, logger *zap.Logger) *Board {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Board{publisher: publisher, logger: logger, now: time.Now}
	for _, o := range orders {
		b.orders = append(b.orders, o.clone())
	}
	return b
}

func (b *Board) List() []Order {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Order, 0, len(b.orders))
	for _, o := range b.orders {
		out = append(out, o.clone())
	}
	return out
}

func (b *Board) Get(id int64) (Order, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	i := b.index(id)
	if i < 0 {
		return Order{}, errNotFound()
	}
	return b.orders[i].clone(), nil
}

// Call returns the phone number to dial for an order's client.
func (b *Board) Call(id int64) (string, error) {
	o, err := b.Get(id)
	if err != nil {
		return "", err
	}
	return o.Client.Phone, nil
}

func (b *Board) index(id int64) int {
	for i, o := range b.orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) MarkInDelivery(ctx context.Context, id int64) (Order, error) {
	return b.transition(ctx, id, StatusInDelivery)
}

func (b *Board) MarkDelivered(ctx context.Context, id int64) (Order, error) {
	return b.transition(ctx, id, StatusDelivered)
}

func (b *Board) transition(ctx context.Context, id int64, next Status) (Order, error) {
	b.mu.Lock()
	i := b.index(id)
	if i < 0 {
		b.mu.Unlock()
		return Order{}, errNotFound()
	}
	current := b.orders[i].Status
	if !isValidTransition(current, next) {
		b.mu.Unlock()
		return Order{}, errInvalidTransition(current, next)
	}
	b.orders[i].Status = next
	updated := b.orders[i].clone()
	b.mu.Unlock()

	b.publish(ctx, events.New(events.TypeDeliveryStatusUpdated, updated.ID, string(next), map[string]any{
		"previousStatus": current,
		"client":         updated.Client,
		"order":          updated,
	}))
	return updated, nil
}

// MarkDelayed flags an in-delivery order as late and notifies. The status
// itself does not change.
func (b *Board) MarkDelayed(ctx context.Context, id int64) (Order, error) {
	b.mu.Lock()
	i := b.index(id)
	if i < 0 {
		b.mu.Unlock()
		return Order{}, errNotFound()
	}
	if b.orders[i].Status != StatusInDelivery {
		b.mu.Unlock()
		return Order{}, &Error{Code: ErrActionNotAvailable, Message: "Only orders in delivery can be marked as delayed", StatusCode: http.StatusConflict}
	}
	at := b.now().UTC()
	b.orders[i].Delayed = true
	b.orders[i].DelayedAt = &at
	updated := b.orders[i].clone()
	b.mu.Unlock()

	b.publish(ctx, events.New(events.TypeDeliveryDelayed, updated.ID, string(updated.Status), map[string]any{
		"client":    updated.Client,
		"delayedAt": at,
		"order":     updated,
	}))
	return updated, nil
}

func (b *Board) publish(ctx context.Context, evt events.Event) {
	if err := b.publisher.Publish(ctx, evt); err != nil {
		b.logger.Warn("publish delivery event failed", zap.String("type", evt.Type), zap.Int64("orderId", evt.OrderID), zap.Error(err))
	}
}
