// utils/report_utils.go
package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nordsol/leadportal_backend/models"
)

// ReportCSVHeader is the fixed column order for the spreadsheet export.
var ReportCSVHeader = []string{
	"Deal ID", "Title", "Opener", "Contact Person", "Created Date", "Status",
	"Companies", "Lead Types", "Total Commission", "Credits", "Net Commission",
}

// BuildCommissionReport rolls up commissions and credit adjustments for
// all deals created in [start, end). Gross commission sums APPROVED deals
// only; credits sum credited-back line items across all deals in range.
// A deal with malformed company data becomes an error row instead of
// aborting the report.
func BuildCommissionReport(deals []models.Deal, start, end time.Time) models.CommissionReport {
	report := models.CommissionReport{
		ExportID:    uuid.NewString(),
		PeriodStart: start,
		PeriodEnd:   end,
		GeneratedAt: time.Now(),
		Rows:        []models.ReportRow{},
	}

	inRange := []models.Deal{}
	for _, deal := range deals {
		if deal.CreatedAt.Before(start) || !deal.CreatedAt.Before(end) {
			continue
		}
		inRange = append(inRange, deal)
	}
	sort.SliceStable(inRange, func(i, j int) bool {
		return inRange[i].CreatedAt.After(inRange[j].CreatedAt)
	})

	summary := &report.Summary
	for _, deal := range inRange {
		summary.TotalDeals++
		switch deal.AdminApproval {
		case models.ApprovalApproved:
			summary.ApprovedDeals++
		case models.ApprovalRejected:
			summary.RejectedDeals++
		default:
			summary.PendingDeals++
		}

		row, err := buildReportRow(deal)
		if err != nil {
			summary.ErrorDeals++
			report.Rows = append(report.Rows, models.ReportRow{
				DealID:    deal.DealID,
				Title:     deal.Title,
				Opener:    deal.OpenerName,
				CreatedAt: deal.CreatedAt,
				Status:    deal.AdminApproval,
				Companies: []string{},
				LeadTypes: []string{},
				Error:     err.Error(),
			})
			continue
		}

		if deal.AdminApproval == models.ApprovalApproved {
			summary.GrossCommission += row.TotalCommission
		}
		summary.GrossCredits += row.Credits
		report.Rows = append(report.Rows, row)
	}

	if summary.TotalDeals > 0 {
		summary.ApprovalRate = float64(summary.ApprovedDeals) / float64(summary.TotalDeals) * 100
	}
	summary.NetCommission = summary.GrossCommission - summary.GrossCredits

	return report
}

func buildReportRow(deal models.Deal) (models.ReportRow, error) {
	companies := []string{}
	leadTypes := []string{}
	credits := 0

	for _, a := range deal.Companies {
		if a.CompanyName == "" {
			return models.ReportRow{}, fmt.Errorf("deal %d has an assignment with empty company name", deal.DealID)
		}
		amount := 0
		switch a.LeadType {
		case models.LeadTypeOffert:
			amount = models.OffertCommission
		case models.LeadTypePlatsbesok:
			amount = models.PlatsbesokCommission
		default:
			return models.ReportRow{}, fmt.Errorf("deal %d company %s has unknown lead type %q", deal.DealID, a.CompanyName, a.LeadType)
		}
		companies = append(companies, a.CompanyName)
		leadTypes = append(leadTypes, a.LeadType)
		if deal.CreditedFor(a.CompanyName) {
			credits += amount
		}
	}

	return models.ReportRow{
		DealID:          deal.DealID,
		Title:           deal.Title,
		Opener:          deal.OpenerName,
		ContactPerson:   deal.ContactPerson,
		CreatedAt:       deal.CreatedAt,
		Status:          deal.AdminApproval,
		Companies:       companies,
		LeadTypes:       leadTypes,
		TotalCommission: deal.TotalCommission,
		Credits:         credits,
		Net:             deal.TotalCommission - credits,
	}, nil
}

// WriteReportCSV writes the report as delimited text with the fixed
// header. encoding/csv handles quoting of fields containing the
// delimiter. The header is always written, even for an empty report.
func WriteReportCSV(report models.CommissionReport, w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(ReportCSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range report.Rows {
		status := row.Status
		if row.Error != "" {
			status = "ERROR: " + row.Error
		}
		record := []string{
			strconv.Itoa(row.DealID),
			row.Title,
			row.Opener,
			row.ContactPerson,
			row.CreatedAt.Format("2006-01-02"),
			status,
			strings.Join(row.Companies, ", "),
			strings.Join(row.LeadTypes, ", "),
			strconv.Itoa(row.TotalCommission),
			strconv.Itoa(row.Credits),
			strconv.Itoa(row.Net),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row for deal %d: %w", row.DealID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// FormatSEK renders an integer SEK amount for display with thousands
// separators and the "kr" suffix, e.g. 12345 -> "12 345 kr".
func FormatSEK(amount int) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := strconv.Itoa(amount)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(d)
	}

	out := b.String() + " kr"
	if negative {
		out = "-" + out
	}
	return out
}
