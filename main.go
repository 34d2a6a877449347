package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/nordsol/leadportal_backend/config"
	customMiddleware "github.com/nordsol/leadportal_backend/middleware"
	"github.com/nordsol/leadportal_backend/routes"
	"github.com/nordsol/leadportal_backend/websocket"
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
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to Redis (remember-me sessions)
	config.ConnectRedis()
	defer config.CloseRedis()

	// Connect to database
	client := config.ConnectDB()

	// Create WebSocket hub for dashboard pushes
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Clean up expired blacklisted tokens in the background
	go customMiddleware.CleanupBlacklist()

	// Create a new Echo instance
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(customMiddleware.GlobalCORS())
	e.Use(customMiddleware.SecurityHeaders())

	rateLimiter := customMiddleware.NewRateLimiter()
	e.Use(rateLimiter.RateLimit())

	// Routes
	routes.RegisterMainRoutes(e, client, wsHub)
	routes.RegisterAuthRoutes(e, client)
	routes.RegisterAdminRoutes(e, client, wsHub)
	routes.RegisterSetterRoutes(e, client)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting server on port %s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
