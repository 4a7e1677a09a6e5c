package checkout

import (
	"fmt"
	"strings"
)

type DeliveryType string

const (
	DeliveryPickup   DeliveryType = "pickup"
	DeliveryDelivery DeliveryType = "delivery"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "Cash"
	PaymentCard     PaymentMethod = "Card"
	PaymentTransfer PaymentMethod = "Transfer"
	PaymentBlik     PaymentMethod = "Blik"
)

var PaymentMethods = []PaymentMethod{PaymentCash, PaymentCard, PaymentTransfer, PaymentBlik}

// ParsePaymentMethod matches case-insensitively and returns the canonical spelling.
func ParsePaymentMethod(value string) (PaymentMethod, bool) {
	trimmed := strings.TrimSpace(value)
	for _, m := range PaymentMethods {
		if strings.EqualFold(trimmed, string(m)) {
			return m, true
		}
	}
	return "", false
}

func ParseDeliveryType(value string) (DeliveryType, bool) {
	switch DeliveryType(strings.ToLower(strings.TrimSpace(value))) {
	case "", DeliveryPickup:
		return DeliveryPickup, true
	case DeliveryDelivery:
		return DeliveryDelivery, true
	default:
		return "", false
	}
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

func (a Address) normalized() Address {
	return Address{
		Street:          strings.TrimSpace(a.Street),
		BuildingNumber:  strings.TrimSpace(a.BuildingNumber),
		ApartmentNumber: strings.TrimSpace(a.ApartmentNumber),
		City:            strings.TrimSpace(a.City),
		PostalCode:      strings.TrimSpace(a.PostalCode),
		Floor:           strings.TrimSpace(a.Floor),
		Staircase:       strings.TrimSpace(a.Staircase),
		Notes:           strings.TrimSpace(a.Notes),
	}
}

// MissingFields lists the required fields left blank, in form order.
func (a Address) MissingFields() []string {
	n := a.normalized()
	missing := make([]string, 0, 4)
	if n.Street == "" {
		missing = append(missing, "street")
	}
	if n.BuildingNumber == "" {
		missing = append(missing, "buildingNumber")
	}
	if n.City == "" {
		missing = append(missing, "city")
	}
	if n.PostalCode == "" {
		missing = append(missing, "postalCode")
	}
	return missing
}

// String renders "street building[/apartment], city postal".
func (a Address) String() string {
	n := a.normalized()
	building := n.BuildingNumber
	if n.ApartmentNumber != "" {
		building += "/" + n.ApartmentNumber
	}
	return fmt.Sprintf("%s %s, %s %s", n.Street, building, n.City, n.PostalCode)
}

// Form is the submitted checkout form. Fields stay raw strings so
// validation can tell a missing value from an invalid one.
type Form struct {
	DeliveryType  string  `json:"deliveryType"`
	PaymentMethod string  `json:"paymentMethod"`
	Address       Address `json:"address"`
}
