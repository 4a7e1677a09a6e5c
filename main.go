package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trattoria-order-service/internal/auth"
	"trattoria-order-service/internal/cart"
	"trattoria-order-service/internal/catalog"
	"trattoria-order-service/internal/checkout"
	"trattoria-order-service/internal/config"
	"trattoria-order-service/internal/db"
	"trattoria-order-service/internal/delivery"
	"trattoria-order-service/internal/events"
	httpapi "trattoria-order-service/internal/http"
	"trattoria-order-service/internal/http/handlers"
	"trattoria-order-service/internal/kitchen"
	"trattoria-order-service/internal/logger"
	"trattoria-order-service/internal/queue"
	"trattoria-order-service/internal/storage"
	"trattoria-order-service/internal/ws"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	hashPassword := flag.String("hash-password", "", "print a bcrypt hash for STAFF_PASSWORD_HASH and exit")
	flag.Parse()
	if *hashPassword != "" {
		hash, err := auth.HashPassword(*hashPassword)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	_ = godotenv.Load()

	cfg := config.Load()
	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	var (
		catalogStore catalog.Store
		cartStorage  cart.Storage
	)
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal("database connection failed", zap.Error(err))
		}
		defer pool.Close()
		if err := db.EnsureSchema(ctx, pool); err != nil {
			log.Fatal("database schema failed", zap.Error(err))
		}
		catalogStore = catalog.NewPGStore(pool)
		cartStorage = cart.NewPGStorage(pool)
	} else {
		log.Info("DATABASE_URL is empty; using in-memory catalog and carts")
		mem := catalog.NewMemoryStore()
		if err := catalog.Seed(ctx, mem); err != nil {
			log.Fatal("catalog seed failed", zap.Error(err))
		}
		catalogStore = mem
		cartStorage = cart.NewMemoryStorage()
	}
	catalogService := catalog.NewService(catalogStore)

	var menuSource catalog.Source = catalog.StoreSource{Store: catalogStore}
	if cfg.CatalogURL != "" {
		log.Info("menu served from remote catalog", zap.String("url", cfg.CatalogURL))
		menuSource = catalog.NewRemoteSource(cfg.CatalogURL, cfg.CatalogFetchTimeout)
	}
	menu := catalog.NewMenu(menuSource, log)
	if err := menu.Load(ctx); err != nil {
		log.Warn("initial menu load failed; serving an empty menu", zap.Error(err))
	}

	publishers := events.Multi{}

	queueClient := setupQueue(ctx, cfg, log)
	if queueClient != nil {
		defer queueClient.Close()
		publishers = append(publishers, queueClient)

		if cfg.RabbitMQWorkerMode == "daemon" {
			log.Info("event translator enabled", zap.String("mode", "daemon"))
			go func() {
				err := queueClient.ConsumeWithRetry(ctx, queue.EventsQueue, func(ctx context.Context, body []byte) error {
					return queue.ProcessEventToJobs(ctx, queueClient, body)
				}, 5, 5*time.Second)
				if err != nil && ctx.Err() == nil {
					log.Error("consumer stopped", zap.Error(err))
				}
			}()
		} else {
			log.Info("event translator disabled", zap.String("mode", cfg.RabbitMQWorkerMode))
		}
	}

	if cfg.NATSURL != "" {
		np, err := queue.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			log.Warn("nats connection failed; continuing without nats", zap.Error(err))
		} else {
			defer np.Close()
			publishers = append(publishers, np)
		}
	}

	wsServer := ws.New(log, cfg.WSHeartbeatInterval)
	publishers = append(publishers, wsServer)

	var kitchenOrders []kitchen.Order
	var deliveryOrders []delivery.Order
	if cfg.SeedSampleOrders {
		kitchenOrders = kitchen.SampleOrders()
		deliveryOrders = delivery.SampleOrders()
	}
	kitchenBoard := kitchen.NewBoard(kitchenOrders, publishers, log)
	deliveryBoard := delivery.NewBoard(deliveryOrders, publishers, log)
	wsServer.Register(ws.TopicKitchen, func() any { return kitchenBoard.List() })
	wsServer.Register(ws.TopicDelivery, func() any { return deliveryBoard.List() })

	cartService := cart.NewService(cartStorage, log)
	h := &handlers.Handler{
		Logger:   log,
		Config:   cfg,
		Catalog:  catalogService,
		Menu:     menu,
		Cart:     cartService,
		Orders:   checkout.NewService(cartService, publishers, cfg.Timezone, log),
		Kitchen:  kitchenBoard,
		Delivery: deliveryBoard,
	}
	if queueClient != nil {
		h.Drainer = queueClient
	}
	if cfg.ObjectStoreEnabled() {
		objectStore, err := storage.NewObjectStore(ctx, storage.ConfigFrom(cfg))
		if err != nil {
			log.Warn("object store unavailable; dish photo uploads disabled", zap.Error(err))
		} else {
			h.Photos = objectStore
		}
	}

	apiServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(log, cfg, h, wsServer),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("order api ready", zap.String("base", "/api"))
		log.Info("order ws ready", zap.String("base", "/ws"))
		log.Info("order service listening", zap.String("addr", cfg.HTTPAddr))
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	cancelWorkers()
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxShutdown); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}
}

// setupQueue connects to RabbitMQ and declares the event and notification
// job topology. Failures are fatal in production; elsewhere the service runs
// without the bus.
func setupQueue(ctx context.Context, cfg config.Config, log *zap.Logger) *queue.Client {
	if cfg.RabbitMQURL == "" {
		log.Info("event bus disabled (RABBITMQ_URL is empty)")
		return nil
	}
	log.Info("rabbitmq enabled", zap.String("eventsQueue", queue.EventsQueue))

	fail := func(msg string, err error) {
		if cfg.Env == "production" {
			log.Fatal(msg, zap.Error(err))
		}
		log.Warn(msg+"; continuing without event bus", zap.Error(err))
	}

	qc, err := queue.New(cfg.RabbitMQURL)
	if err != nil {
		fail("rabbitmq connection failed", err)
		return nil
	}
	if err := queue.EnsureEventsTopology(qc); err != nil {
		fail("rabbitmq events topology failed", err)
		_ = qc.Close()
		return nil
	}
	if err := queue.EnsureNotificationJobsTopology(ctx, qc); err != nil {
		fail("rabbitmq notification_jobs topology failed", err)
		_ = qc.Close()
		return nil
	}
	return qc
}
