package kitchen

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"trattoria-order-service/internal/events"

	"go.uber.org/zap"
)

type Status string

const (
	StatusPlaced Status = "placed"
	StatusNew    Status = "new"
	StatusReady  Status = "ready"
)

// Statuses is the selectable set, in board order.
var Statuses = []Status{StatusPlaced, StatusNew, StatusReady}

func ParseStatus(value string) (Status, bool) {
	s := Status(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range Statuses {
		if s == known {
			return s, true
		}
	}
	return "", false
}

const ActionAccept = "accept"

type Dish struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type Order struct {
	ID      int64    `json:"id"`
	Status  Status   `json:"status"`
	Dishes  []Dish   `json:"dishes"`
	Actions []string `json:"actions"`
}

// Actions lists the buttons offered for an order. Only placed orders can be accepted.
func Actions(o Order) []string {
	if o.Status == StatusPlaced {
		return []string{ActionAccept}
	}
	return []string{}
}

func (o Order) clone() Order {
	out := o
	out.Dishes = append([]Dish(nil), o.Dishes...)
	out.Actions = Actions(o)
	return out
}

// Board is the in-memory kitchen queue. Status selection is free-form
// within Statuses; accept is the only guarded action.
type Board struct {
	mu        sync.RWMutex
	orders    []Order
	publisher events.Publisher
	logger    *zap.Logger
}

func NewBoard(orders []Order, publisher events.Publisher, logger *zap.Logger) *Board {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Board{publisher: publisher, logger: logger}
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

func (b *Board) index(id int64) int {
	for i, o := range b.orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// SetStatus applies any known status directly, including backwards moves.
func (b *Board) SetStatus(ctx context.Context, id int64, value string) (Order, error) {
	status, ok := ParseStatus(value)
	if !ok {
		return Order{}, &Error{Code: ErrInvalidStatus, Message: "Status must be one of placed, new, ready", StatusCode: http.StatusBadRequest}
	}
	return b.update(ctx, id, func(o *Order) error {
		o.Status = status
		return nil
	})
}

// Accept moves a placed order to new.
func (b *Board) Accept(ctx context.Context, id int64) (Order, error) {
	return b.update(ctx, id, func(o *Order) error {
		if o.Status != StatusPlaced {
			return &Error{Code: ErrActionNotAvailable, Message: "Only placed orders can be accepted", StatusCode: http.StatusConflict}
		}
		o.Status = StatusNew
		return nil
	})
}

func (b *Board) update(ctx context.Context, id int64, apply func(*Order) error) (Order, error) {
	b.mu.Lock()
	i := b.index(id)
	if i < 0 {
		b.mu.Unlock()
		return Order{}, errNotFound()
	}
	previous := b.orders[i].Status
	if err := apply(&b.orders[i]); err != nil {
		b.mu.Unlock()
		return Order{}, err
	}
	updated := b.orders[i].clone()
	b.mu.Unlock()

	evt := events.New(events.TypeKitchenStatusUpdated, updated.ID, string(updated.Status), map[string]any{
		"previousStatus": previous,
		"order":          updated,
	})
	if err := b.publisher.Publish(ctx, evt); err != nil {
		b.logger.Warn("publish kitchen status failed", zap.Int64("orderId", id), zap.Error(err))
	}
	return updated, nil
}
