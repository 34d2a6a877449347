package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nordsol/leadportal_backend/middleware"
	"github.com/nordsol/leadportal_backend/models"
	"github.com/nordsol/leadportal_backend/websocket"
)

// RegisterMainRoutes sets up health check and websocket routes
func RegisterMainRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "OK",
		})
	})

	ws := e.Group("/ws")
	ws.Use(middleware.JWTMiddleware())
	ws.GET("", func(c echo.Context) error {
		userID, err := middleware.ExtractUserID(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Authentication required",
			})
		}
		objID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid user ID in token",
			})
		}
		return websocket.HandleWebSocket(c, hub, objID)
	})
}
