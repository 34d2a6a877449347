package utils

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordsol/leadportal_backend/models"
)

func reportDeal(dealID int, createdAt string, approval string, total int, companies ...models.CompanyAssignment) models.Deal {
	created, _ := time.Parse(time.RFC3339, createdAt)
	return models.Deal{
		DealID:          dealID,
		Title:           "Deal",
		OpenerName:      "Johan",
		CreatedAt:       created,
		Stage:           models.DealStageWon,
		AdminApproval:   approval,
		TotalCommission: total,
		Companies:       companies,
	}
}

func TestBuildCommissionReport_Summary(t *testing.T) {
	start, _ := time.Parse(time.RFC3339, "2024-01-01T00:00:00Z")
	end, _ := time.Parse(time.RFC3339, "2024-02-01T00:00:00Z")

	deals := []models.Deal{
		reportDeal(1, "2024-01-05T00:00:00Z", models.ApprovalApproved, 500,
			models.CompanyAssignment{CompanyName: "A", LeadType: models.LeadTypeOffert},
			models.CompanyAssignment{CompanyName: "B", LeadType: models.LeadTypePlatsbesok},
		),
		reportDeal(2, "2024-01-10T00:00:00Z", models.ApprovalApproved, 200,
			models.CompanyAssignment{CompanyName: "A", LeadType: models.LeadTypeOffert, Credited: true},
			models.CompanyAssignment{CompanyName: "C", LeadType: models.LeadTypeOffert},
		),
		reportDeal(3, "2024-01-15T00:00:00Z", models.ApprovalPending, 400,
			models.CompanyAssignment{CompanyName: "B", LeadType: models.LeadTypePlatsbesok},
		),
	}

	report := BuildCommissionReport(deals, start, end)

	summary := report.Summary
	assert.Equal(t, 3, summary.TotalDeals)
	assert.Equal(t, 2, summary.ApprovedDeals)
	assert.Equal(t, 1, summary.PendingDeals)
	assert.Equal(t, 0, summary.RejectedDeals)
	assert.InDelta(t, 66.67, summary.ApprovalRate, 0.01)

	// Gross counts approved deals only; credits count all deals in range
	assert.Equal(t, 700, summary.GrossCommission)
	assert.Equal(t, 100, summary.GrossCredits)
	assert.Equal(t, summary.GrossCommission-summary.GrossCredits, summary.NetCommission)

	// Newest first
	require.Len(t, report.Rows, 3)
	assert.Equal(t, 3, report.Rows[0].DealID)
	assert.Equal(t, 2, report.Rows[1].DealID)
	assert.Equal(t, 1, report.Rows[2].DealID)

	assert.NotEmpty(t, report.ExportID)
}

func TestBuildCommissionReport_RangeIsHalfOpen(t *testing.T) {
	start, _ := time.Parse(time.RFC3339, "2024-01-01T00:00:00Z")
	end, _ := time.Parse(time.RFC3339, "2024-02-01T00:00:00Z")

	deals := []models.Deal{
		reportDeal(1, "2023-12-31T23:59:59Z", models.ApprovalApproved, 100),
		reportDeal(2, "2024-01-01T00:00:00Z", models.ApprovalApproved, 100),
		reportDeal(3, "2024-02-01T00:00:00Z", models.ApprovalApproved, 100),
	}

	report := BuildCommissionReport(deals, start, end)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, 2, report.Rows[0].DealID)
}

func TestBuildCommissionReport_MalformedDealBecomesErrorRow(t *testing.T) {
	start, _ := time.Parse(time.RFC3339, "2024-01-01T00:00:00Z")
	end, _ := time.Parse(time.RFC3339, "2024-02-01T00:00:00Z")

	deals := []models.Deal{
		reportDeal(1, "2024-01-05T00:00:00Z", models.ApprovalApproved, 500,
			models.CompanyAssignment{CompanyName: "A", LeadType: "JUNK"},
		),
		reportDeal(2, "2024-01-10T00:00:00Z", models.ApprovalApproved, 200,
			models.CompanyAssignment{CompanyName: "B", LeadType: models.LeadTypeOffert},
		),
	}

	report := BuildCommissionReport(deals, start, end)
	require.Len(t, report.Rows, 2)

	assert.Equal(t, 1, report.Summary.ErrorDeals)
	// Malformed deal contributes nothing to the sums
	assert.Equal(t, 200, report.Summary.GrossCommission)

	var errorRow *models.ReportRow
	for i := range report.Rows {
		if report.Rows[i].Error != "" {
			errorRow = &report.Rows[i]
		}
	}
	require.NotNil(t, errorRow)
	assert.Equal(t, 1, errorRow.DealID)
}

func TestBuildCommissionReport_CreditSurvivesWipedSlot(t *testing.T) {
	start, _ := time.Parse(time.RFC3339, "2024-01-01T00:00:00Z")
	end, _ := time.Parse(time.RFC3339, "2024-02-01T00:00:00Z")

	// Slot flag reset by a sync refresh; creditedCompanies still has it
	deal := reportDeal(1, "2024-01-05T00:00:00Z", models.ApprovalApproved, 200,
		models.CompanyAssignment{CompanyName: "Sol AB", LeadType: models.LeadTypeOffert, Credited: false},
	)
	deal.CreditedCompanies = []string{"Sol AB"}

	report := BuildCommissionReport([]models.Deal{deal}, start, end)
	require.Len(t, report.Rows, 1)

	assert.Equal(t, 100, report.Rows[0].Credits)
	assert.Equal(t, 100, report.Summary.GrossCredits)
	assert.Equal(t, report.Summary.GrossCommission-100, report.Summary.NetCommission)
}

func TestWriteReportCSV(t *testing.T) {
	start, _ := time.Parse(time.RFC3339, "2024-01-01T00:00:00Z")
	end, _ := time.Parse(time.RFC3339, "2024-02-01T00:00:00Z")

	deal := reportDeal(1, "2024-01-05T00:00:00Z", models.ApprovalApproved, 500,
		models.CompanyAssignment{CompanyName: "Sol, Tak & Energi AB", LeadType: models.LeadTypeOffert},
		models.CompanyAssignment{CompanyName: "B", LeadType: models.LeadTypePlatsbesok},
	)
	deal.Title = "Eriksson, Villa"
	deal.ContactPerson = "Erik Eriksson"

	report := BuildCommissionReport([]models.Deal{deal}, start, end)

	var buf bytes.Buffer
	require.NoError(t, WriteReportCSV(report, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, ReportCSVHeader, records[0])
	assert.Equal(t, "1", records[1][0])
	// Fields containing the delimiter survive the round trip
	assert.Equal(t, "Eriksson, Villa", records[1][1])
	assert.Equal(t, "Sol, Tak & Energi AB, B", records[1][6])
	assert.Equal(t, "OFFERT, PLATSBESOK", records[1][7])
	assert.Equal(t, "500", records[1][8])
}

func TestWriteReportCSV_EmptyReportKeepsHeader(t *testing.T) {
	start, _ := time.Parse(time.RFC3339, "2024-01-01T00:00:00Z")
	end, _ := time.Parse(time.RFC3339, "2024-02-01T00:00:00Z")

	report := BuildCommissionReport(nil, start, end)

	var buf bytes.Buffer
	require.NoError(t, WriteReportCSV(report, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "Deal ID")
	assert.Contains(t, lines[0], "Net Commission")
}

func TestFormatSEK(t *testing.T) {
	tests := []struct {
		amount int
		want   string
	}{
		{amount: 0, want: "0 kr"},
		{amount: 100, want: "100 kr"},
		{amount: 1234, want: "1 234 kr"},
		{amount: 1234567, want: "1 234 567 kr"},
		{amount: -500, want: "-500 kr"},
		{amount: -12345, want: "-12 345 kr"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSEK(tt.amount), "amount=%d", tt.amount)
	}
}
