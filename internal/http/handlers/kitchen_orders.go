package handlers

import (
	"net/http"

	"trattoria-order-service/internal/tickets"
	"trattoria-order-service/internal/utils"
	"trattoria-order-service/pkg/response"
)

func (h *Handler) ListKitchenOrders(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.Kitchen.List())
}

func (h *Handler) GetKitchenOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, "id", "Order ID")
	if !ok {
		return
	}
	order, err := h.Kitchen.Get(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, order)
}

type kitchenStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) SetKitchenOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, "id", "Order ID")
	if !ok {
		return
	}
	var req kitchenStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	order, err := h.Kitchen.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, order)
}

func (h *Handler) AcceptKitchenOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, "id", "Order ID")
	if !ok {
		return
	}
	order, err := h.Kitchen.Accept(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, order)
}

func (h *Handler) KitchenTicketPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, "id", "Order ID")
	if !ok {
		return
	}
	order, err := h.Kitchen.Get(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	pdf, err := tickets.KitchenTicket(restaurantName, order, utils.CurrentDateInTimezone(h.Config.Timezone)+" "+utils.CurrentTimeInTimezone(h.Config.Timezone))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.PDF(w, tickets.Filename("kitchen-ticket", id), pdf.Bytes())
}
