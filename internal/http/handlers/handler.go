package handlers

import (
	"context"
	"errors"
	"net/http"

	"trattoria-order-service/internal/cart"
	"trattoria-order-service/internal/catalog"
	"trattoria-order-service/internal/checkout"
	"trattoria-order-service/internal/config"
	"trattoria-order-service/internal/delivery"
	"trattoria-order-service/internal/kitchen"
	"trattoria-order-service/internal/middleware"
	"trattoria-order-service/pkg/response"

	"go.uber.org/zap"
)

// PhotoStore is the object store surface dish photo uploads need.
type PhotoStore interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) (string, error)
	DeletePrefix(ctx context.Context, prefix string) error
	DeleteURL(ctx context.Context, raw string) error
}

// EventDrainer runs one pass of the event translator (cron worker mode).
type EventDrainer interface {
	DrainEvents(ctx context.Context, max int) (int, []error)
}

type Handler struct {
	Logger *zap.Logger
	Config config.Config

	Catalog  *catalog.Service
	Menu     *catalog.Menu
	Cart     *cart.Service
	Orders   *checkout.Service
	Kitchen  *kitchen.Board
	Delivery *delivery.Board

	// Photos is nil when no object store is configured.
	Photos PhotoStore
	// Drainer is nil without RabbitMQ.
	Drainer EventDrainer
}

// writeError maps domain errors onto the JSON error envelope. Anything
// unrecognised is logged and reported as INTERNAL_ERROR.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if ce, ok := catalog.AsError(err); ok {
		response.Error(w, ce.StatusCode, string(ce.Code), ce.Message)
		return
	}
	if ce, ok := checkout.AsError(err); ok {
		response.ErrorWithDetails(w, ce.StatusCode, string(ce.Code), ce.Message, ce.Details)
		return
	}
	if ke, ok := kitchen.AsError(err); ok {
		response.Error(w, ke.StatusCode, string(ke.Code), ke.Message)
		return
	}
	if de, ok := delivery.AsError(err); ok {
		response.Error(w, de.StatusCode, string(de.Code), de.Message)
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}

	h.Logger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("requestId", r.Header.Get("X-Request-Id")),
		zapError(err),
	)
	response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
}

// refreshMenu reloads the menu snapshot after a catalog write.
func (h *Handler) refreshMenu(ctx context.Context) {
	if h.Menu == nil {
		return
	}
	if err := h.Menu.Load(ctx); err != nil {
		h.Logger.Warn("menu refresh failed", zapError(err))
	}
}

// staffField names the signed-in staff member for audit log lines.
func staffField(ctx context.Context) zap.Field {
	if claims, ok := middleware.GetStaffClaims(ctx); ok {
		name := claims.Name
		if name == "" {
			name = string(claims.Role)
		}
		return zap.String("staff", name)
	}
	return zap.Skip()
}
