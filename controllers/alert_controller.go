// controllers/alert_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nordsol/leadportal_backend/config"
	"github.com/nordsol/leadportal_backend/models"
	"github.com/nordsol/leadportal_backend/repositories"
	"github.com/nordsol/leadportal_backend/utils"
	"github.com/nordsol/leadportal_backend/websocket"
)

type AlertController struct {
	db   *mongo.Client
	repo *repositories.DealRepository
	hub  *websocket.Hub
}

func NewAlertController(db *mongo.Client, hub *websocket.Hub) *AlertController {
	return &AlertController{
		db:   db,
		repo: repositories.NewDealRepository(db),
		hub:  hub,
	}
}

// computeAlerts loads the current shares with their deals and companies
// and projects the credit window state. Always computed fresh: the
// result depends on the clock and is never cached.
func (alc *AlertController) computeAlerts(ctx context.Context, includeExpired bool) ([]models.CreditWindowAlert, error) {
	now := time.Now()

	shares, err := alc.repo.ActiveShares(ctx, now, includeExpired)
	if err != nil {
		return nil, err
	}

	dealIDs := make([]int, 0, len(shares))
	companyNames := make([]string, 0, len(shares))
	for _, share := range shares {
		dealIDs = append(dealIDs, share.DealID)
		companyNames = append(companyNames, share.CompanyName)
	}

	deals := make(map[int]*models.Deal)
	if len(dealIDs) > 0 {
		found, err := alc.repo.Find(ctx, bson.M{"dealId": bson.M{"$in": dealIDs}})
		if err != nil {
			return nil, err
		}
		for i := range found {
			deals[found[i].DealID] = &found[i]
		}
	}

	companies := make(map[string]*models.Company)
	if len(companyNames) > 0 {
		cursor, err := config.GetCollection(alc.db, "companies").Find(ctx, bson.M{"name": bson.M{"$in": companyNames}})
		if err != nil {
			return nil, err
		}
		var found []models.Company
		if err := cursor.All(ctx, &found); err != nil {
			return nil, err
		}
		for i := range found {
			companies[found[i].Name] = &found[i]
		}
	}

	return utils.ComputeCreditWindowAlerts(shares, deals, companies, now)
}

// GetCreditWindowAlerts returns the current credit window state per deal
func (alc *AlertController) GetCreditWindowAlerts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	includeExpired := c.QueryParam("includeExpired") == "true"

	alerts, err := alc.computeAlerts(ctx, includeExpired)
	if err != nil {
		// Missing relations are a data integrity problem, not something
		// to paper over with a partial result
		log.Printf("Credit window alert computation failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to compute credit window alerts",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Credit window alerts computed",
		Data:    alerts,
	})
}

// RunAlertCheck recomputes the alerts, emails the digest to admins,
// pushes the alert set to connected dashboards, and returns the webhook
// payloads for external delivery
func (alc *AlertController) RunAlertCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	alerts, err := alc.computeAlerts(ctx, true)
	if err != nil {
		log.Printf("Credit window alert check failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to compute credit window alerts",
			Data:    err.Error(),
		})
	}

	if err := utils.SendCreditWindowDigest(alc.db, alerts); err != nil {
		log.Printf("Failed to send credit window digest: %v", err)
	}

	alc.hub.NotifyCreditWindowAlerts(alerts)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Alert check completed",
		Data: map[string]interface{}{
			"alerts":  alerts,
			"webhook": utils.BuildAlertWebhookPayload(alerts),
			"chat":    utils.BuildAlertChatMessage(alerts),
		},
	})
}
