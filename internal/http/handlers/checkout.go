package handlers

import (
	"net/http"

	"trattoria-order-service/internal/checkout"
	"trattoria-order-service/internal/middleware"
	"trattoria-order-service/pkg/response"
)

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var form checkout.Form
	if !decodeJSON(w, r, &form) {
		return
	}
	conf, err := h.Orders.Submit(r.Context(), middleware.GetCartSession(r.Context()), form)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, conf)
}

// CheckoutOptions lists the selectable payment methods and delivery types.
func (h *Handler) CheckoutOptions(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]any{
		"paymentMethods": checkout.PaymentMethods,
		"deliveryTypes":  []checkout.DeliveryType{checkout.DeliveryPickup, checkout.DeliveryDelivery},
	})
}
