package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nordsol/leadportal_backend/controllers"
	"github.com/nordsol/leadportal_backend/middleware"
	"github.com/nordsol/leadportal_backend/models"
)

// RegisterSetterRoutes sets up the opener portal routes
func RegisterSetterRoutes(e *echo.Echo, db *mongo.Client) {
	setterController := controllers.NewSetterController(db)

	setter := e.Group("/api/setter")
	setter.Use(middleware.JWTMiddleware())
	setter.Use(middleware.RequireUserType(models.UserTypeSetter))

	setter.GET("/deals", setterController.GetMyDeals)
	setter.GET("/commission-summary", setterController.GetMyCommissionSummary)
	setter.GET("/notifications", setterController.GetMyNotifications)
}
