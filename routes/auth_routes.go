package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nordsol/leadportal_backend/controllers"
	"github.com/nordsol/leadportal_backend/middleware"
)

// RegisterAuthRoutes sets up login and session routes
func RegisterAuthRoutes(e *echo.Echo, db *mongo.Client) {
	authController := controllers.NewAuthController(db)

	auth := e.Group("/api/auth")
	auth.POST("/login", authController.Login)
	auth.POST("/login/remember", authController.LoginWithRememberToken)

	protected := auth.Group("")
	protected.Use(middleware.JWTMiddleware())
	protected.POST("/logout", authController.Logout)
}
