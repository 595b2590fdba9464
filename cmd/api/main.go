package main

import (
	"context"
	"os"

	"storefront-backend/internal/cart"
	"storefront-backend/internal/catalog"
	"storefront-backend/internal/checkout"
	"storefront-backend/internal/config"
	"storefront-backend/internal/events"
	"storefront-backend/internal/handlers"
	"storefront-backend/internal/order"
	"storefront-backend/internal/storage"
	"storefront-backend/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service: "storefront-api",
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
	})

	ctx := context.Background()
	client, err := storage.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer client.Disconnect(ctx)
	db := client.Database(cfg.MongoDatabase)

	orderStore := order.NewStore(db)
	if err := orderStore.EnsureIndexes(ctx); err != nil {
		log.Error("failed to create indexes", "error", err)
		os.Exit(1)
	}
	catalogStore := catalog.NewStore(db)
	cartStore := cart.NewStore(db)
	tx := storage.NewTx(client)

	var pub events.Publisher = events.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		pool, err := events.NewChannelPool(cfg.RabbitMQURL, cfg.RabbitMQQueue, cfg.ChannelPoolSize)
		if err != nil {
			log.Error("failed to connect to RabbitMQ", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		pub = events.NewRabbitPublisher(pool, cfg.RabbitMQQueue)
		log.Info("order events enabled", "queue", cfg.RabbitMQQueue)
	}

	cartSvc := cart.NewService(cartStore, catalogStore)
	checkoutSvc := checkout.NewService(catalogStore, cartStore, orderStore, tx, pub, log)
	orderSvc := order.NewService(orderStore, catalogStore, tx, pub, log)

	r := handlers.NewRouter(handlers.Deps{
		Catalog:      catalogStore,
		Cart:         cartSvc,
		Checkout:     checkoutSvc,
		Orders:       orderSvc,
		JWTSecret:    []byte(cfg.JWTSecret),
		AllowOrigins: cfg.AllowOrigins,
		Logger:       log,
	})

	log.Info("starting server", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}
