package handlers

import (
	"context"
	"net/http"

	"trattoria-order-service/internal/delivery"
	"trattoria-order-service/internal/tickets"
	"trattoria-order-service/pkg/response"

	"go.uber.org/zap"
)

const restaurantName = "Trattoria"

func (h *Handler) ListDeliveryOrders(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.Delivery.List())
}

func (h *Handler) GetDeliveryOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, "id", "Order ID")
	if !ok {
		return
	}
	order, err := h.Delivery.Get(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, order)
}

type deliveryAction func(ctx context.Context, id int64) (delivery.Order, error)

func (h *Handler) runDeliveryAction(w http.ResponseWriter, r *http.Request, action deliveryAction) {
	id, ok := readID(w, r, "id", "Order ID")
	if !ok {
		return
	}
	order, err := action(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.Logger.Info("delivery order updated",
		zap.Int64("orderId", order.ID),
		zap.String("status", string(order.Status)),
		zap.Bool("delayed", order.Delayed),
		staffField(r.Context()),
	)
	response.Success(w, order)
}

func (h *Handler) MarkInDelivery(w http.ResponseWriter, r *http.Request) {
	h.runDeliveryAction(w, r, h.Delivery.MarkInDelivery)
}

func (h *Handler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	h.runDeliveryAction(w, r, h.Delivery.MarkDelivered)
}

func (h *Handler) MarkDelayed(w http.ResponseWriter, r *http.Request) {
	h.runDeliveryAction(w, r, h.Delivery.MarkDelayed)
}

// CallClient returns the number to dial and a tel: link for the board button.
func (h *Handler) CallClient(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, "id", "Order ID")
	if !ok {
		return
	}
	phone, err := h.Delivery.Call(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, map[string]any{"phone": phone, "href": "tel:" + phone})
}

func (h *Handler) DeliverySlipPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, "id", "Order ID")
	if !ok {
		return
	}
	order, err := h.Delivery.Get(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	pdf, err := tickets.DeliverySlip(restaurantName, order)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.PDF(w, tickets.Filename("delivery-slip", id), pdf.Bytes())
}
