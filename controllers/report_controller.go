// controllers/report_controller.go
package controllers

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nordsol/leadportal_backend/models"
	"github.com/nordsol/leadportal_backend/repositories"
	"github.com/nordsol/leadportal_backend/utils"
)

type ReportController struct {
	repo *repositories.DealRepository
}

func NewReportController(db *mongo.Client) *ReportController {
	return &ReportController{repo: repositories.NewDealRepository(db)}
}

// reportPeriod parses the from/to query params; defaults to the current
// calendar month
func reportPeriod(c echo.Context) (time.Time, time.Time, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	if fromStr := c.QueryParam("from"); fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return start, end, fmt.Errorf("invalid from date %q, expected YYYY-MM-DD", fromStr)
		}
		start = parsed
	}
	if toStr := c.QueryParam("to"); toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return start, end, fmt.Errorf("invalid to date %q, expected YYYY-MM-DD", toStr)
		}
		// Inclusive of the whole to-day; the range itself is half-open
		end = parsed.AddDate(0, 0, 1)
	}
	if !start.Before(end) {
		return start, end, fmt.Errorf("from date must be before to date")
	}
	return start, end, nil
}

// GetCommissionReport returns the commission report for a period as JSON
func (rc *ReportController) GetCommissionReport(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start, end, err := reportPeriod(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	deals, err := rc.repo.FindInRange(ctx, start, end)
	if err != nil {
		log.Printf("Failed to fetch deals for report: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch deals for report",
		})
	}

	report := utils.BuildCommissionReport(deals, start, end)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission report generated",
		Data:    report,
	})
}

// ExportCommissionReportCSV returns the commission report as a CSV
// download for spreadsheet use
func (rc *ReportController) ExportCommissionReportCSV(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start, end, err := reportPeriod(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	deals, err := rc.repo.FindInRange(ctx, start, end)
	if err != nil {
		log.Printf("Failed to fetch deals for export: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch deals for export",
		})
	}

	report := utils.BuildCommissionReport(deals, start, end)

	var buf bytes.Buffer
	if err := utils.WriteReportCSV(report, &buf); err != nil {
		log.Printf("Failed to write CSV export %s: %v", report.ExportID, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate CSV export",
		})
	}

	filename := fmt.Sprintf("commission-report-%s-%s.csv", start.Format("2006-01-02"), end.Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}
