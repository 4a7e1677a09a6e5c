package handlers

import (
	"net/http"

	"trattoria-order-service/internal/catalog"
	"trattoria-order-service/pkg/response"
)

func (h *Handler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	ings, err := h.Catalog.ListIngredients(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, ings)
}

func (h *Handler) GetIngredient(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, "id", "Ingredient ID")
	if !ok {
		return
	}
	ing, err := h.Catalog.GetIngredient(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, ing)
}

func (h *Handler) CreateIngredient(w http.ResponseWriter, r *http.Request) {
	var in catalog.IngredientInput
	if !decodeJSON(w, r, &in) {
		return
	}
	ing, err := h.Catalog.CreateIngredient(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Created(w, ing)
}

func (h *Handler) UpdateIngredient(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, "id", "Ingredient ID")
	if !ok {
		return
	}
	var in catalog.IngredientInput
	if !decodeJSON(w, r, &in) {
		return
	}
	ing, err := h.Catalog.UpdateIngredient(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	// dishes embed ingredient rows
	h.refreshMenu(r.Context())
	response.Success(w, ing)
}

func (h *Handler) DeleteIngredient(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, "id", "Ingredient ID")
	if !ok {
		return
	}
	if err := h.Catalog.DeleteIngredient(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Message(w, "Ingredient deleted")
}
