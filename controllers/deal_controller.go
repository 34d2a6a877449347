// controllers/deal_controller.go
package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nordsol/leadportal_backend/models"
	"github.com/nordsol/leadportal_backend/repositories"
	"github.com/nordsol/leadportal_backend/utils"
	"github.com/nordsol/leadportal_backend/websocket"
)

// commissionRetries bounds how often a recalculation retries after losing
// a version race to another writer.
const commissionRetries = 3

type DealController struct {
	db   *mongo.Client
	repo *repositories.DealRepository
	hub  *websocket.Hub
}

func NewDealController(db *mongo.Client, hub *websocket.Hub) *DealController {
	return &DealController{
		db:   db,
		repo: repositories.NewDealRepository(db),
		hub:  hub,
	}
}

func dealIDParam(c echo.Context) (int, error) {
	return strconv.Atoi(c.Param("dealId"))
}

// GetDeals returns all deals, optionally filtered by approval state
func (dc *DealController) GetDeals(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if approval := c.QueryParam("approval"); approval != "" {
		filter["adminApproval"] = approval
	}
	if stage := c.QueryParam("stage"); stage != "" {
		filter["stage"] = stage
	}

	deals, err := dc.repo.Find(ctx, filter)
	if err != nil {
		log.Printf("Failed to fetch deals: %v", err)
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

// GetDeal returns one deal with its commission breakdown and line items
func (dc *DealController) GetDeal(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dealID, err := dealIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid deal id",
		})
	}

	deal, err := dc.repo.GetByDealID(ctx, dealID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: err.Error(),
		})
	}

	breakdown, err := utils.CalculateCommission(deal.Companies)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, models.Response{
			Status:  http.StatusUnprocessableEntity,
			Message: "Deal has malformed company data",
			Data:    err.Error(),
		})
	}

	items, err := dc.repo.CommissionsForDeal(ctx, dealID)
	if err != nil {
		log.Printf("Failed to fetch commission items for deal %d: %v", dealID, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Deal retrieved successfully",
		Data: map[string]interface{}{
			"deal":        deal,
			"breakdown":   breakdown,
			"commissions": items,
		},
	})
}

// RecalculateCommission validates a deal, recomputes its commission and
// persists the result. Retries on version conflicts so a concurrent
// credit-back flip is never lost.
func (dc *DealController) RecalculateCommission(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dealID, err := dealIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid deal id",
		})
	}

	breakdown, validation, status, resp := dc.recalculate(ctx, dealID)
	if resp != nil {
		return c.JSON(status, *resp)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission recalculated",
		Data: map[string]interface{}{
			"validation": validation,
			"breakdown":  breakdown,
		},
	})
}

// recalculate runs the validate-calculate-persist cycle with retries.
// A nil response pointer means success.
func (dc *DealController) recalculate(ctx context.Context, dealID int) (models.CommissionBreakdown, models.ValidationResult, int, *models.Response) {
	var breakdown models.CommissionBreakdown
	var validation models.ValidationResult

	for attempt := 0; attempt < commissionRetries; attempt++ {
		deal, err := dc.repo.GetByDealID(ctx, dealID)
		if err != nil {
			return breakdown, validation, http.StatusNotFound, &models.Response{
				Status:  http.StatusNotFound,
				Message: err.Error(),
			}
		}

		validation, err = utils.ValidateDealForCommission(deal)
		if err != nil {
			return breakdown, validation, http.StatusInternalServerError, &models.Response{
				Status:  http.StatusInternalServerError,
				Message: err.Error(),
			}
		}
		if !validation.IsValid {
			return breakdown, validation, http.StatusUnprocessableEntity, &models.Response{
				Status:  http.StatusUnprocessableEntity,
				Message: "Deal is not eligible for commission",
				Data:    validation,
			}
		}

		breakdown, err = utils.CalculateCommission(deal.Companies)
		if err != nil {
			return breakdown, validation, http.StatusUnprocessableEntity, &models.Response{
				Status:  http.StatusUnprocessableEntity,
				Message: "Deal has malformed company data",
				Data:    err.Error(),
			}
		}

		err = dc.repo.SaveCommissionResult(ctx, dealID, deal.Version, breakdown)
		if err == nil {
			log.Printf("Commission recalculated for deal %d: total %d SEK", dealID, breakdown.Total)
			return breakdown, validation, http.StatusOK, nil
		}
		if !errors.Is(err, repositories.ErrVersionConflict) {
			log.Printf("Failed to persist commission for deal %d: %v", dealID, err)
			return breakdown, validation, http.StatusInternalServerError, &models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to persist commission",
			}
		}
		// Lost the race, reload and try again
	}

	return breakdown, validation, http.StatusConflict, &models.Response{
		Status:  http.StatusConflict,
		Message: "Deal is being modified concurrently, please retry",
	}
}

// HandleApproval approves or rejects a deal. Approval recalculates the
// commission first so the approved amount is current.
func (dc *DealController) HandleApproval(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dealID, err := dealIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid deal id",
		})
	}

	var req models.ApprovalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Action must be approve or reject",
		})
	}

	approval := models.ApprovalRejected
	if req.Action == "approve" {
		approval = models.ApprovalApproved

		_, _, status, resp := dc.recalculate(ctx, dealID)
		if resp != nil {
			return c.JSON(status, *resp)
		}
	}

	if err := dc.repo.SetApproval(ctx, dealID, approval); err != nil {
		log.Printf("Failed to set approval for deal %d: %v", dealID, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update approval state",
		})
	}

	deal, err := dc.repo.GetByDealID(ctx, dealID)
	if err == nil {
		approved := approval == models.ApprovalApproved
		if err := utils.NotifySetterOfApproval(dc.db, deal, approved); err != nil {
			log.Printf("Failed to save approval notification for deal %d: %v", dealID, err)
		}
		if !deal.SetterID.IsZero() {
			dc.hub.NotifyDealApproval(deal.SetterID, approved, deal)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Deal " + approval,
		Data:    deal,
	})
}

// ShareDeal hands the deal's contact details to the named partner
// companies, starting each company's 14-day credit window.
func (dc *DealController) ShareDeal(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dealID, err := dealIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid deal id",
		})
	}

	var req models.ShareDealRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Between 1 and 4 company names are required",
		})
	}

	deal, err := dc.repo.GetByDealID(ctx, dealID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: err.Error(),
		})
	}

	shares, err := dc.repo.CreateLeadShares(ctx, deal, req.CompanyNames, time.Now())
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, models.Response{
			Status:  http.StatusUnprocessableEntity,
			Message: err.Error(),
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Deal shared with companies",
		Data:    shares,
	})
}

// CreditBack processes a partner company returning a lead within its
// credit window, then recalculates the deal's commission.
func (dc *DealController) CreditBack(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dealID, err := dealIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid deal id",
		})
	}

	var req models.CreditBackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Company name is required",
		})
	}

	err = dc.repo.MarkCreditedBack(ctx, dealID, req.CompanyName, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrCreditWindowClosed):
			return c.JSON(http.StatusUnprocessableEntity, models.Response{
				Status:  http.StatusUnprocessableEntity,
				Message: "Credit window has expired for this lead",
			})
		case errors.Is(err, repositories.ErrAlreadyCredited):
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Company has already credited back this deal",
			})
		default:
			return c.JSON(http.StatusUnprocessableEntity, models.Response{
				Status:  http.StatusUnprocessableEntity,
				Message: err.Error(),
			})
		}
	}

	log.Printf("Deal %d credited back by %s (reason: %s)", dealID, req.CompanyName, req.Reason)

	breakdown, _, status, resp := dc.recalculate(ctx, dealID)
	if resp != nil {
		return c.JSON(status, *resp)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Credit back recorded",
		Data:    breakdown,
	})
}
