package delivery

import (
	"context"
	"testing"
	"time"

	"trattoria-order-service/internal/events"
	"trattoria-order-service/internal/events/eventstest"
)

func newTestBoard() (*Board, *eventstest.Recorder) {
	rec := &eventstest.Recorder{}
	b := NewBoard(SampleOrders(), rec, nil)
	b.now = func() time.Time { return time.Date(2024, 5, 1, 18, 30, 0, 0, time.UTC) }
	return b, rec
}

func TestForwardOnlyTransitions(t *testing.T) {
	tests := []struct {
		name    string
		prepare []func(*Board) error
		step    func(*Board) (Order, error)
		code    ErrorCode
		want    Status
	}{
		{
			name: "ready to in delivery",
			step: func(b *Board) (Order, error) { return b.MarkInDelivery(context.Background(), 1) },
			want: StatusInDelivery,
		},
		{
			name: "ready cannot skip to delivered",
			step: func(b *Board) (Order, error) { return b.MarkDelivered(context.Background(), 1) },
			code: ErrInvalidTransition,
		},
		{
			name:    "in delivery to delivered",
			prepare: []func(*Board) error{inDelivery(1)},
			step:    func(b *Board) (Order, error) { return b.MarkDelivered(context.Background(), 1) },
			want:    StatusDelivered,
		},
		{
			name:    "in delivery cannot repeat",
			prepare: []func(*Board) error{inDelivery(1)},
			step:    func(b *Board) (Order, error) { return b.MarkInDelivery(context.Background(), 1) },
			code:    ErrInvalidTransition,
		},
		{
			name:    "delivered is terminal",
			prepare: []func(*Board) error{inDelivery(2), delivered(2)},
			step:    func(b *Board) (Order, error) { return b.MarkInDelivery(context.Background(), 2) },
			code:    ErrInvalidTransition,
		},
		{
			name: "unknown order",
			step: func(b *Board) (Order, error) { return b.MarkInDelivery(context.Background(), 42) },
			code: ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newTestBoard()
			for _, p := range tt.prepare {
				if err := p(b); err != nil {
					t.Fatalf("prepare: %v", err)
				}
			}
			o, err := tt.step(b)
			if tt.code != "" {
				de, ok := AsError(err)
				if !ok || de.Code != tt.code {
					t.Fatalf("expected %s, got %v", tt.code, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if o.Status != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, o.Status)
			}
		})
	}
}

func inDelivery(id int64) func(*Board) error {
	return func(b *Board) error {
		_, err := b.MarkInDelivery(context.Background(), id)
		return err
	}
}

func delivered(id int64) func(*Board) error {
	return func(b *Board) error {
		_, err := b.MarkDelivered(context.Background(), id)
		return err
	}
}

func TestDelayedKeepsStatus(t *testing.T) {
	ctx := context.Background()
	b, rec := newTestBoard()

	_, err := b.MarkDelayed(ctx, 1)
	if de, ok := AsError(err); !ok || de.Code != ErrActionNotAvailable {
		t.Fatalf("ready order cannot be delayed, got %v", err)
	}

	_ = inDelivery(1)(b)
	o, err := b.MarkDelayed(ctx, 1)
	if err != nil {
		t.Fatalf("delayed: %v", err)
	}
	if o.Status != StatusInDelivery || !o.Delayed || o.DelayedAt == nil {
		t.Fatalf("unexpected order after delay: %+v", o)
	}

	delayed := rec.OfType(events.TypeDeliveryDelayed)
	if len(delayed) != 1 || delayed[0].OrderID != 1 {
		t.Fatalf("expected one delayed event for #1, got %+v", delayed)
	}
}

func TestActions(t *testing.T) {
	tests := []struct {
		status Status
		want   []string
	}{
		{StatusReady, []string{ActionInDelivery}},
		{StatusInDelivery, []string{ActionDelivered, ActionDelayed}},
		{StatusDelivered, []string{}},
	}
	for _, tt := range tests {
		got := Actions(Order{Status: tt.status})
		if len(got) != len(tt.want) {
			t.Fatalf("%s: expected %v, got %v", tt.status, tt.want, got)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("%s: expected %v, got %v", tt.status, tt.want, got)
			}
		}
	}
}

func TestCallReturnsPhone(t *testing.T) {
	b, _ := newTestBoard()
	phone, err := b.Call(2)
	if err != nil || phone != "987-654-321" {
		t.Fatalf("unexpected phone %q %v", phone, err)
	}
	if _, err := b.Call(7); err == nil {
		t.Fatalf("expected not found")
	}
}

func TestSeedAddress(t *testing.T) {
	b, _ := newTestBoard()
	o, _ := b.Get(1)
	if o.Address.Notes != "Proszę zadzwonić przed dostawą." || o.Address.Floor != "2" || o.Client.FullName() != "Jan Kowalski" {
		t.Fatalf("unexpected seed order %+v", o)
	}
}
