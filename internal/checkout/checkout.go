package checkout

import (
	"context"
	"fmt"
	"strings"

	"trattoria-order-service/internal/cart"
	"trattoria-order-service/internal/events"
	"trattoria-order-service/internal/utils"

	"go.uber.org/zap"
)

const RedirectAfterOrder = "/menu"

type Confirmation struct {
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	DeliveryType  DeliveryType  `json:"deliveryType"`
	Address       *Address      `json:"address,omitempty"`
	Items         []cart.Item   `json:"items"`
	Total         string        `json:"total"`
	PlacedAt      string        `json:"placedAt"`
	Summary       string        `json:"summary"`
	Redirect      string        `json:"redirect"`
}

// Cart is the part of the cart service checkout depends on.
type Cart interface {
	Items(ctx context.Context, session string) []cart.Item
	Clear(ctx context.Context, session string) error
}

type Service struct {
	cart      Cart
	publisher events.Publisher
	timezone  string
	logger    *zap.Logger
}

func NewService(c Cart, publisher events.Publisher, timezone string, logger *zap.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cart: c, publisher: publisher, timezone: timezone, logger: logger}
}

// Validate checks the form against the current cart without side effects.
func Validate(items []cart.Item, form Form) (DeliveryType, PaymentMethod, error) {
	if len(items) == 0 {
		return "", "", validationError(ErrCartEmpty, "Your cart is empty.", nil)
	}

	if strings.TrimSpace(form.PaymentMethod) == "" {
		return "", "", validationError(ErrPaymentMethodRequired, "Please choose a payment method.", nil)
	}
	method, ok := ParsePaymentMethod(form.PaymentMethod)
	if !ok {
		return "", "", validationError(ErrPaymentMethodInvalid, "Unknown payment method.", map[string]any{"paymentMethod": form.PaymentMethod})
	}

	deliveryType, ok := ParseDeliveryType(form.DeliveryType)
	if !ok {
		return "", "", validationError(ErrDeliveryTypeInvalid, "Delivery type must be pickup or delivery.", map[string]any{"deliveryType": form.DeliveryType})
	}

	if deliveryType == DeliveryDelivery {
		if missing := form.Address.MissingFields(); len(missing) > 0 {
			return "", "", validationError(ErrAddressIncomplete,
				"Please fill in all required address fields: "+strings.Join(missing, ", "),
				map[string]any{"missingFields": missing})
		}
	}
	return deliveryType, method, nil
}

// Submit validates the form, clears the cart and publishes order.placed.
// Validation failures leave the cart untouched.
func (s *Service) Submit(ctx context.Context, session string, form Form) (Confirmation, error) {
	items := s.cart.Items(ctx, session)
	deliveryType, method, err := Validate(items, form)
	if err != nil {
		return Confirmation{}, err
	}

	total := cart.Total(items)
	conf := Confirmation{
		PaymentMethod: method,
		DeliveryType:  deliveryType,
		Items:         items,
		Total:         utils.FormatAmount(total),
		PlacedAt:      utils.CurrentTimeInTimezone(s.timezone),
		Redirect:      RedirectAfterOrder,
	}
	if deliveryType == DeliveryDelivery {
		addr := form.Address.normalized()
		conf.Address = &addr
	}
	conf.Summary = summarize(conf)

	if err := s.cart.Clear(ctx, session); err != nil {
		return Confirmation{}, fmt.Errorf("clear cart: %w", err)
	}

	evt := events.New(events.TypeOrderPlaced, 0, "placed", map[string]any{
		"deliveryType":  deliveryType,
		"paymentMethod": method,
		"total":         conf.Total,
		"itemCount":     len(items),
		"placedAt":      conf.PlacedAt,
		"address":       conf.Address,
	})
	if err := s.publisher.Publish(ctx, evt); err != nil {
		// the order is placed; a lost notification is not a checkout failure
		s.logger.Warn("publish order placed failed", zap.Error(err))
	}

	return conf, nil
}

func summarize(c Confirmation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order placed at %s. Payment: %s. ", c.PlacedAt, c.PaymentMethod)
	if c.DeliveryType == DeliveryDelivery && c.Address != nil {
		fmt.Fprintf(&b, "Delivery to %s.", c.Address.String())
	} else {
		b.WriteString("Pickup at the restaurant.")
	}
	fmt.Fprintf(&b, " Total: %s PLN.", c.Total)
	return b.String()
}
