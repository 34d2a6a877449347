// controllers/setter_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nordsol/leadportal_backend/config"
	"github.com/nordsol/leadportal_backend/middleware"
	"github.com/nordsol/leadportal_backend/models"
	"github.com/nordsol/leadportal_backend/repositories"
	"github.com/nordsol/leadportal_backend/utils"
)

// SetterController serves the opener portal: a setter's own deals,
// commission summary and notifications.
type SetterController struct {
	db   *mongo.Client
	repo *repositories.DealRepository
}

func NewSetterController(db *mongo.Client) *SetterController {
	return &SetterController{
		db:   db,
		repo: repositories.NewDealRepository(db),
	}
}

func (sc *SetterController) currentSetterID(c echo.Context) (primitive.ObjectID, error) {
	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return primitive.ObjectIDFromHex(userID)
}

// GetMyDeals returns the authenticated setter's deals, newest first
func (sc *SetterController) GetMyDeals(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	setterID, err := sc.currentSetterID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid user ID in token",
		})
	}

	deals, err := sc.repo.Find(ctx, bson.M{"setterId": setterID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch deals",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Deals retrieved successfully",
		Data:    deals,
	})
}

// GetMyCommissionSummary sums the setter's approved commissions for the
// current month, with displayable amounts
func (sc *SetterController) GetMyCommissionSummary(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	setterID, err := sc.currentSetterID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid user ID in token",
		})
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	deals, err := sc.repo.Find(ctx, bson.M{
		"setterId":  setterID,
		"createdAt": bson.M{"$gte": monthStart},
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch deals",
		})
	}

	approved := 0
	pending := 0
	approvedTotal := 0
	pendingTotal := 0
	for _, deal := range deals {
		switch deal.AdminApproval {
		case models.ApprovalApproved:
			approved++
			approvedTotal += deal.TotalCommission
		case models.ApprovalPending:
			pending++
			pendingTotal += deal.TotalCommission
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission summary computed",
		Data: map[string]interface{}{
			"month":           monthStart.Format("2006-01"),
			"dealCount":       len(deals),
			"approvedDeals":   approved,
			"pendingDeals":    pending,
			"approvedTotal":   approvedTotal,
			"pendingTotal":    pendingTotal,
			"approvedDisplay": utils.FormatSEK(approvedTotal),
			"pendingDisplay":  utils.FormatSEK(pendingTotal),
		},
	})
}

// GetMyNotifications returns the setter's in-app notifications
func (sc *SetterController) GetMyNotifications(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	setterID, err := sc.currentSetterID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid user ID in token",
		})
	}

	cursor, err := config.GetCollection(sc.db, "notifications").Find(ctx, bson.M{"userId": setterID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch notifications",
		})
	}

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode notifications",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notifications retrieved successfully",
		Data:    notifications,
	})
}
