package handlers

import (
	"net/http"

	"trattoria-order-service/internal/cart"
	"trattoria-order-service/internal/catalog"
	"trattoria-order-service/internal/middleware"
	"trattoria-order-service/internal/utils"
	"trattoria-order-service/pkg/response"
)

type cartView struct {
	Items     []cart.Item `json:"items"`
	Total     string      `json:"total"`
	ItemCount int         `json:"itemCount"`
}

func newCartView(items []cart.Item) cartView {
	return cartView{Items: items, Total: utils.FormatAmount(cart.Total(items)), ItemCount: len(items)}
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetCartSession(r.Context())
	response.Success(w, newCartView(h.Cart.Items(r.Context(), session)))
}

type addToCartRequest struct {
	DishID int64 `json:"dishId"`
}

// addDish looks the dish up in the menu snapshot; the cart only ever holds
// dishes the customer could see.
func (h *Handler) addDish(r *http.Request, dishID int64) (cart.Item, error) {
	dish, ok := h.Menu.Dish(dishID)
	if !ok {
		return cart.Item{}, &catalog.Error{Code: catalog.ErrDishNotFound, Message: "Dish not found", StatusCode: http.StatusNotFound}
	}
	return h.Cart.Add(r.Context(), middleware.GetCartSession(r.Context()), dish)
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.DishID <= 0 {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "dishId is required")
		return
	}
	item, err := h.addDish(r, req.DishID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Created(w, item)
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	uniqueID := readPathString(r, "uniqueId")
	if uniqueID == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "uniqueId is required")
		return
	}
	items, err := h.Cart.Remove(r.Context(), middleware.GetCartSession(r.Context()), uniqueID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, newCartView(items))
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.Cart.Clear(r.Context(), middleware.GetCartSession(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, newCartView([]cart.Item{}))
}
