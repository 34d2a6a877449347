package models

import "time"

// ReportSummary holds the roll-up numbers for a commission report period.
// All monetary amounts are integer SEK.
type ReportSummary struct {
	TotalDeals      int     `json:"totalDeals"`
	ApprovedDeals   int     `json:"approvedDeals"`
	PendingDeals    int     `json:"pendingDeals"`
	RejectedDeals   int     `json:"rejectedDeals"`
	ErrorDeals      int     `json:"errorDeals"`
	ApprovalRate    float64 `json:"approvalRate"` // percent
	GrossCommission int     `json:"grossCommission"`
	GrossCredits    int     `json:"grossCredits"`
	NetCommission   int     `json:"netCommission"`
}

// ReportRow is one deal in a commission report. A row with Error set
// could not be aggregated and contributes nothing to the summary sums.
type ReportRow struct {
	DealID          int       `json:"dealId"`
	Title           string    `json:"title"`
	Opener          string    `json:"opener"`
	ContactPerson   string    `json:"contactPerson,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	Status          string    `json:"status"`
	Companies       []string  `json:"companies"`
	LeadTypes       []string  `json:"leadTypes"`
	TotalCommission int       `json:"totalCommission"`
	Credits         int       `json:"credits"`
	Net             int       `json:"net"`
	Error           string    `json:"error,omitempty"`
}

// CommissionReport is the full report for a period, suitable for JSON
// consumption; the CSV export flattens Rows.
type CommissionReport struct {
	ExportID    string        `json:"exportId"`
	PeriodStart time.Time     `json:"periodStart"`
	PeriodEnd   time.Time     `json:"periodEnd"`
	GeneratedAt time.Time     `json:"generatedAt"`
	Summary     ReportSummary `json:"summary"`
	Rows        []ReportRow   `json:"rows"`
}
