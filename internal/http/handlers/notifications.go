package handlers

import (
	"net/http"
	"strconv"
	"time"

	"trattoria-order-service/pkg/response"
)

// DrainNotifications runs the event translator once; used when the worker
// runs in cron mode instead of as a long-lived consumer.
func (h *Handler) DrainNotifications(w http.ResponseWriter, r *http.Request) {
	startedAt := time.Now().UTC()
	limit := 50
	if v := r.URL.Query().Get("max"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = min(max(n, 1), 250)
		}
	}

	if h.Drainer == nil {
		response.JSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"disabled":  true,
			"processed": 0,
			"errors":    []string{},
			"startedAt": startedAt,
			"endedAt":   time.Now().UTC(),
		})
		return
	}

	processed, errs := h.Drainer.DrainEvents(r.Context(), limit)
	messages := make([]string, 0, len(errs))
	for _, err := range errs {
		messages = append(messages, err.Error())
	}
	response.JSON(w, http.StatusOK, map[string]any{
		"success":   len(errs) == 0,
		"disabled":  false,
		"processed": processed,
		"errors":    messages,
		"startedAt": startedAt,
		"endedAt":   time.Now().UTC(),
	})
}
