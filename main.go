package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/motoventas/crm_backend/config"
	"github.com/motoventas/crm_backend/middleware"
	"github.com/motoventas/crm_backend/repositories"
	"github.com/motoventas/crm_backend/routes"
	"github.com/motoventas/crm_backend/services"
	"github.com/motoventas/crm_backend/utils"
	"github.com/motoventas/crm_backend/websocket"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	logger := config.GetLogger()

	// Initialize Firebase (push notifications stay disabled without it)
	config.InitFirebase()

	// Connect to Redis (remember-me sessions and report cache)
	config.ConnectRedis()

	// Connect to database
	client := config.ConnectDB()
	db := client.Database(config.DatabaseName())

	if err := utils.InitializeStorage(); err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	// Create WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Wire services on top of the transactional store
	store := repositories.NewMongoStore(db)
	saleService := services.NewSaleService(store, logger)
	goalService := services.NewGoalService(store, logger)
	vatService := services.NewVATService(store, logger)
	telegramService := services.NewTelegramServiceFromEnv(logger)
	extractionService := services.NewExtractionServiceFromEnv(logger)

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.GlobalCORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeadersWithConfig(middleware.SecurityConfig{
		AllowedDomains: []string{"*"},
		AllowInlineJS:  true,
	}))
	e.Use(middleware.ActivityTracker(client))

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "Motoventas CRM backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	routes.SetupRoutes(e, routes.Deps{
		DB:         db,
		Store:      store,
		Hub:        wsHub,
		Sales:      saleService,
		Goals:      goalService,
		VAT:        vatService,
		Telegram:   telegramService,
		Extraction: extractionService,
	})

	go middleware.CleanupBlacklist()

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
