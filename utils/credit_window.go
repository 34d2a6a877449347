// utils/credit_window.go
package utils

import (
	"fmt"
	"sort"
	"time"

	"github.com/nordsol/leadportal_backend/models"
)

// Urgency and status thresholds in whole days.
const (
	expiringThresholdDays = 2
	criticalThresholdDays = 1
	highThresholdDays     = 3
)

// DaysRemaining returns the whole days left until expiry, rounded up,
// never negative. Ceiling semantics keep the count consistent around DST
// transitions: any remaining fraction of a day counts as a full day.
func DaysRemaining(expires, now time.Time) int {
	remaining := expires.Sub(now)
	if remaining <= 0 {
		return 0
	}
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// CreditWindowStatus derives the window state from expiry vs now. The
// state is a projection, never stored.
func CreditWindowStatus(expires, now time.Time) string {
	if !now.Before(expires) {
		return models.CreditWindowExpired
	}
	if DaysRemaining(expires, now) <= expiringThresholdDays {
		return models.CreditWindowExpiring
	}
	return models.CreditWindowActive
}

// AlertUrgency maps remaining days to an urgency tier.
func AlertUrgency(daysRemaining int) string {
	switch {
	case daysRemaining <= criticalThresholdDays:
		return models.UrgencyCritical
	case daysRemaining <= highThresholdDays:
		return models.UrgencyHigh
	default:
		return models.UrgencyMedium
	}
}

// ComputeCreditWindowAlerts groups lead shares by deal and produces one
// alert per deal. It is recomputed from scratch on every call: the result
// depends on now and must not be cached.
//
// A share referencing a deal or company we do not know is a data
// integrity violation and fails the whole computation; credit window
// correctness is financially sensitive and must not fail silently.
func ComputeCreditWindowAlerts(shares []models.LeadShare, deals map[int]*models.Deal, companies map[string]*models.Company, now time.Time) ([]models.CreditWindowAlert, error) {
	type dealGroup struct {
		deal           *models.Deal
		companies      []models.AlertCompany
		earliestExpiry time.Time
	}

	groups := make(map[int]*dealGroup)
	order := []int{}

	for _, share := range shares {
		deal, ok := deals[share.DealID]
		if !ok || deal == nil {
			return nil, fmt.Errorf("lead share %s references unknown deal %d", share.ID.Hex(), share.DealID)
		}
		company, ok := companies[share.CompanyName]
		if !ok || company == nil {
			return nil, fmt.Errorf("lead share %s for deal %d references unknown company %q", share.ID.Hex(), share.DealID, share.CompanyName)
		}

		group, ok := groups[share.DealID]
		if !ok {
			group = &dealGroup{deal: deal, earliestExpiry: share.CreditWindowExpires}
			groups[share.DealID] = group
			order = append(order, share.DealID)
		}
		if share.CreditWindowExpires.Before(group.earliestExpiry) {
			group.earliestExpiry = share.CreditWindowExpires
		}
		group.companies = append(group.companies, models.AlertCompany{
			Name:        company.Name,
			Email:       company.PrimaryEmail(),
			HasCredited: deal.CreditedFor(company.Name),
		})
	}

	alerts := make([]models.CreditWindowAlert, 0, len(groups))
	for _, dealID := range order {
		group := groups[dealID]
		days := DaysRemaining(group.earliestExpiry, now)

		hasCredited := false
		for _, c := range group.companies {
			if c.HasCredited {
				hasCredited = true
				break
			}
		}

		alerts = append(alerts, models.CreditWindowAlert{
			DealID:               dealID,
			DealTitle:            group.deal.Title,
			Opener:               group.deal.OpenerName,
			Companies:            group.companies,
			DaysRemaining:        days,
			Status:               CreditWindowStatus(group.earliestExpiry, now),
			Urgency:              AlertUrgency(days),
			HasCreditedCompanies: hasCredited,
		})
	}

	// Most urgent first, deal id as tiebreaker.
	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].DaysRemaining != alerts[j].DaysRemaining {
			return alerts[i].DaysRemaining < alerts[j].DaysRemaining
		}
		return alerts[i].DealID < alerts[j].DealID
	})

	return alerts, nil
}
