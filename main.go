package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"

	"food-delivery/api/config"
	_ "food-delivery/api/docs"
	"food-delivery/api/events"
	"food-delivery/api/geoindex"
	"food-delivery/api/handlers"
	"food-delivery/api/location"
	"food-delivery/api/services"
	"food-delivery/api/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := storage.Open(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := storage.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	kafkaLogger, err := events.NewKafkaLogger(cfg.Kafka)
	if err != nil {
		log.Fatal("Failed to create Kafka producer:", err)
	}
	defer kafkaLogger.Close()

	orderQueue, err := events.DialOrderQueue(cfg.RabbitMQ)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ:", err)
	}
	defer orderQueue.Close()

	cartRepo := storage.NewCartRepository(db)
	orderRepo := storage.NewOrderRepository(db)
	storeRepo := storage.NewStoreRepository(db)
	userRepo := storage.NewUserRepository(db)
	deliveryRepo := storage.NewDeliveryRepository(db)

	geoIndex := geoindex.New(rdb)
	geocoder := location.NewGeocoder(cfg.Geocoder)
	files := storage.NewFileStorage(cfg.Uploads)

	cartService := services.NewCartService(cartRepo, storeRepo)
	orderService := services.NewOrderService(
		cartRepo, orderRepo, storeRepo, userRepo, deliveryRepo,
		geoIndex, geocoder, kafkaLogger, orderQueue, cfg.Delivery,
	)
	deliveryService := services.NewDeliveryService(
		deliveryRepo, orderRepo, geoIndex, files, kafkaLogger, cfg.Delivery,
	)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(handlers.MetricsMiddleware())

	server := handlers.NewServer(cfg, cartService, orderService, deliveryService, userRepo)
	server.RegisterRoutes(app)

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/metrics", handlers.MetricsHandler())

	// Store-side consumer for the new-order queue.
	go func() {
		err := orderQueue.Consume(func(orderID string) {
			log.Printf("order %s queued for store pickup", orderID)
		})
		if err != nil {
			log.Printf("order queue consumer stopped: %v", err)
		}
	}()

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	log.Printf("Server starting on port %s", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}
