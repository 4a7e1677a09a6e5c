package httpapi

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"trattoria-order-service/internal/config"
	"trattoria-order-service/internal/http/handlers"
	"trattoria-order-service/internal/middleware"
	"trattoria-order-service/internal/ws"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func NewRouter(logger *zap.Logger, cfg config.Config, h *handlers.Handler, wsServer *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Telemetry(logger))

	if cfg.IsDevelopment() || len(cfg.CorsAllowedOrigins) > 0 {
		options := cors.Options{
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{
				"Accept",
				"Authorization",
				"Content-Type",
				"X-Requested-With",
				middleware.CartSessionHeader,
				"Cache-Control",
			},
			ExposedHeaders:   []string{middleware.CartSessionHeader, "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}

		if cfg.IsDevelopment() {
			options.AllowOriginFunc = func(_ *http.Request, origin string) bool {
				return true
			}
		} else {
			options.AllowedOrigins = cfg.CorsAllowedOrigins
		}

		r.Use(cors.Handler(options))
	}

	// Role checks are path based, so one instance covers the API, pages and sockets.
	r.Use(middleware.StaffAuth(cfg.StaffJWTSecret))
	cartSession := middleware.CartSession(cfg.CartSessionSecret, !cfg.IsDevelopment())

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(setResponseHeader("Cache-Control", "no-store"))

		r.Post("/staff/login", h.StaffLogin)

		r.Get("/menu", h.MenuSnapshot)
		r.Post("/menu/reload", h.ReloadMenu)

		r.Route("/dishes", func(r chi.Router) {
			r.Get("/", h.ListDishes)
			r.Post("/", h.CreateDish)
			r.Get("/all-with-relations", h.AllDishesWithRelations)
			r.Get("/{id}", h.GetDish)
			r.Put("/{id}", h.UpdateDish)
			r.Delete("/{id}", h.DeleteDish)
			r.Get("/{id}/with-relations", h.GetDishWithRelations)
			r.Post("/{id}/image", h.UploadDishImage)
		})

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", h.ListIngredients)
			r.Post("/", h.CreateIngredient)
			r.Get("/{id}", h.GetIngredient)
			r.Put("/{id}", h.UpdateIngredient)
			r.Delete("/{id}", h.DeleteIngredient)
		})

		r.Group(func(r chi.Router) {
			r.Use(cartSession)
			r.Get("/cart", h.GetCart)
			r.Delete("/cart", h.ClearCart)
			r.Post("/cart/items", h.AddCartItem)
			r.Delete("/cart/items/{uniqueId}", h.RemoveCartItem)
			r.Get("/checkout/options", h.CheckoutOptions)
			r.Post("/checkout", h.Checkout)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.ListKitchenOrders)
			r.Get("/{id}", h.GetKitchenOrder)
			r.Patch("/{id}/status", h.SetKitchenOrderStatus)
			r.Post("/{id}/accept", h.AcceptKitchenOrder)
			r.Get("/{id}/ticket", h.KitchenTicketPDF)
		})

		r.Route("/delivery-orders", func(r chi.Router) {
			r.Get("/", h.ListDeliveryOrders)
			r.Get("/{id}", h.GetDeliveryOrder)
			r.Post("/{id}/in-delivery", h.MarkInDelivery)
			r.Post("/{id}/delivered", h.MarkDelivered)
			r.Post("/{id}/delayed", h.MarkDelayed)
			r.Get("/{id}/call", h.CallClient)
			r.Get("/{id}/slip", h.DeliverySlipPDF)
		})

		r.Route("/internal", func(r chi.Router) {
			r.Use(middleware.CronAuth(cfg.CronSecret))
			r.Post("/notifications/drain", h.DrainNotifications)
		})
	})

	if wsServer != nil {
		r.Get("/ws/orders", wsServer.OrdersWS)
		r.Get("/ws/delivery-orders", wsServer.DeliveryOrdersWS)
	}

	r.Group(func(r chi.Router) {
		r.Use(cartSession)
		r.Get("/", h.RootRedirect)
		r.Get("/menu", h.MenuPage)
		r.Post("/menu/add", h.MenuAddForm)
		r.Get("/cart", h.CartPage)
		r.Post("/cart/remove", h.CartRemoveForm)
		r.Post("/cart/checkout", h.CartCheckoutForm)
		r.Get("/orders", h.KitchenPage)
		r.Post("/orders/{id}/status", h.KitchenStatusForm)
		r.Post("/orders/{id}/accept", h.KitchenAcceptForm)
		r.Get("/delivery-orders", h.DeliveryPage)
		r.Post("/delivery-orders/{id}/{action}", h.DeliveryActionForm)
	})

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hj.Hijack()
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

func setResponseHeader(name string, value string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(name, value)
			next.ServeHTTP(w, r)
		})
	}
}
