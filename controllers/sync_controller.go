// controllers/sync_controller.go
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
	"github.com/nordsol/leadportal_backend/services"
)

// SyncController pulls deal and lead feeds from the external platforms
// into the local database.
type SyncController struct {
	db         *mongo.Client
	repo       *repositories.DealRepository
	crm        *services.PipedriveService
	callCenter *services.AdversusService
}

func NewSyncController(db *mongo.Client) *SyncController {
	return &SyncController{
		db:         db,
		repo:       repositories.NewDealRepository(db),
		crm:        services.NewPipedriveService(),
		callCenter: services.NewAdversusService(),
	}
}

// SyncDeals fetches the CRM deal feed and upserts each deal. Commission
// and credited state are local and never overwritten by the sync.
func (sc *SyncController) SyncDeals(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	deals, err := sc.crm.FetchDeals()
	if err != nil {
		log.Printf("Deal sync failed: %v", err)
		return c.JSON(http.StatusBadGateway, models.Response{
			Status:  http.StatusBadGateway,
			Message: "Failed to fetch deals from CRM",
			Data:    err.Error(),
		})
	}

	synced := 0
	for i := range deals {
		deal := deals[i]
		sc.attachSetter(ctx, &deal)
		if err := sc.repo.Upsert(ctx, &deal); err != nil {
			log.Printf("Failed to upsert deal %d: %v", deal.DealID, err)
			continue
		}
		synced++
	}

	log.Printf("Deal sync complete: %d of %d deals upserted", synced, len(deals))

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Deal sync completed",
		Data: map[string]interface{}{
			"fetched": len(deals),
			"synced":  synced,
		},
	})
}

// attachSetter links a synced deal to the setter whose call-center agent
// name matches the deal's opener.
func (sc *SyncController) attachSetter(ctx context.Context, deal *models.Deal) {
	if deal.OpenerName == "" {
		return
	}
	var setter models.User
	err := config.GetCollection(sc.db, "users").FindOne(ctx, bson.M{
		"userType":  models.UserTypeSetter,
		"agentName": deal.OpenerName,
	}).Decode(&setter)
	if err != nil {
		return
	}
	deal.SetterID = setter.ID
}

// SyncLeads fetches recent leads from the call-center platform. Leads are
// a read-only feed here; the response is for dashboard display.
func (sc *SyncController) SyncLeads(c echo.Context) error {
	since := time.Now().AddDate(0, 0, -7)
	if sinceStr := c.QueryParam("since"); sinceStr != "" {
		parsed, err := time.Parse("2006-01-02", sinceStr)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid since date, expected YYYY-MM-DD",
			})
		}
		since = parsed
	}

	leads, err := sc.callCenter.FetchLeads(since)
	if err != nil {
		log.Printf("Lead sync failed: %v", err)
		return c.JSON(http.StatusBadGateway, models.Response{
			Status:  http.StatusBadGateway,
			Message: "Failed to fetch leads from call-center platform",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Lead feed fetched",
		Data: map[string]interface{}{
			"count": len(leads),
			"leads": leads,
		},
	})
}
