package main

import (
	"log"

	"academix/backend/config"
	"academix/backend/middleware"
	"academix/backend/routes"
	"academix/backend/services"
	"academix/backend/utils"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	if err := utils.Migrate(db); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger()

	// External services
	store, err := services.NewOSSStorage(cfg)
	if err != nil {
		log.Fatalf("Error initializing object storage: %v", err)
	}

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	prometheus := fiberprometheus.New("academix")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Setup routes
	routes.SetupRoutes(app, db, cfg, routes.Deps{
		Store:  store,
		Mail:   services.NewSMTPMailer(cfg),
		Gen:    services.NewGeminiClient(cfg),
		Video:  services.NewJson2VideoClient(cfg),
		Logger: logger,
	})

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
