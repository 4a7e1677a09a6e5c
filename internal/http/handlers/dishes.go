package handlers

import (
	"net/http"

	"trattoria-order-service/internal/catalog"
	"trattoria-order-service/internal/storage"
	"trattoria-order-service/pkg/response"

	"go.uber.org/zap"
)

func (h *Handler) ListDishes(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.Catalog.ListDishes(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]catalog.DishSummary, 0, len(dishes))
	for _, d := range dishes {
		out = append(out, d.Summary())
	}
	response.Success(w, out)
}

func (h *Handler) AllDishesWithRelations(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.Catalog.AllWithRelations(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, dishes)
}

func (h *Handler) GetDish(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, "id", "Dish ID")
	if !ok {
		return
	}
	dish, err := h.Catalog.GetDish(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, dish.Summary())
}

func (h *Handler) GetDishWithRelations(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, "id", "Dish ID")
	if !ok {
		return
	}
	dish, err := h.Catalog.GetDish(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, dish)
}

func (h *Handler) CreateDish(w http.ResponseWriter, r *http.Request) {
	var in catalog.DishInput
	if !decodeJSON(w, r, &in) {
		return
	}
	dish, err := h.Catalog.CreateDish(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.refreshMenu(r.Context())
	response.Created(w, dish)
}

func (h *Handler) UpdateDish(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, "id", "Dish ID")
	if !ok {
		return
	}
	var in catalog.DishInput
	if !decodeJSON(w, r, &in) {
		return
	}
	dish, err := h.Catalog.UpdateDish(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.refreshMenu(r.Context())
	response.Success(w, dish)
}

func (h *Handler) DeleteDish(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, "id", "Dish ID")
	if !ok {
		return
	}
	ctx := r.Context()
	if err := h.Catalog.DeleteDish(ctx, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	if h.Photos != nil {
		if err := h.Photos.DeletePrefix(ctx, storage.DishPrefix(id)); err != nil {
			h.Logger.Warn("dish photo cleanup failed", zap.Int64("dishId", id), zapError(err))
		}
	}
	h.refreshMenu(ctx)
	response.Message(w, "Dish deleted")
}

// MenuSnapshot serves the menu as loaded at startup (or last refresh).
func (h *Handler) MenuSnapshot(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]any{
		"dishes":   h.Menu.Dishes(),
		"loadedAt": h.Menu.LoadedAt(),
	})
}

func (h *Handler) ReloadMenu(w http.ResponseWriter, r *http.Request) {
	if err := h.Menu.Load(r.Context()); err != nil {
		response.Error(w, http.StatusBadGateway, string(catalog.ErrCatalogUnavailable), "Failed to load the menu")
		return
	}
	response.Success(w, map[string]any{
		"dishes":   len(h.Menu.Dishes()),
		"loadedAt": h.Menu.LoadedAt(),
	})
}
