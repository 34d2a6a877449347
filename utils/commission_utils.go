// utils/commission_utils.go
package utils

import (
	"errors"
	"fmt"

	"github.com/nordsol/leadportal_backend/models"
)

// ErrNilDeal indicates a programming error upstream: validation was asked
// for a deal that does not exist.
var ErrNilDeal = errors.New("deal is nil")

// CalculateCommission turns a deal's company assignments into a commission
// breakdown. Pure and deterministic: the same assignment list always yields
// the same breakdown, and the breakdown mirrors input order.
//
// Rules: one base bonus of 100 SEK when at least one company is assigned,
// then per slot 100 SEK for OFFERT and 300 SEK for PLATSBESOK. Credited
// companies are skipped entirely; their persisted line items keep the
// amount for audit, but they contribute nothing here.
func CalculateCommission(assignments []models.CompanyAssignment) (models.CommissionBreakdown, error) {
	result := models.CommissionBreakdown{
		Breakdown: []models.CommissionLineItem{},
	}

	if len(assignments) > models.MaxCompaniesPerLead {
		return result, fmt.Errorf("deal has %d company assignments, maximum is %d", len(assignments), models.MaxCompaniesPerLead)
	}

	if len(assignments) > 0 {
		result.BaseBonus = models.BaseBonusAmount
		result.Breakdown = append(result.Breakdown, models.CommissionLineItem{
			Type:        models.LineItemBaseBonus,
			Amount:      models.BaseBonusAmount,
			Description: "Base bonus",
		})
	}

	for _, a := range assignments {
		if a.CompanyName == "" {
			return models.CommissionBreakdown{Breakdown: []models.CommissionLineItem{}}, errors.New("company assignment has empty company name")
		}
		if a.Credited {
			continue
		}
		switch a.LeadType {
		case models.LeadTypeOffert:
			result.OffertCommissions += models.OffertCommission
			result.Breakdown = append(result.Breakdown, models.CommissionLineItem{
				Type:        models.LineItemOffert,
				Amount:      models.OffertCommission,
				Description: fmt.Sprintf("Offert lead to %s", a.CompanyName),
				CompanyName: a.CompanyName,
			})
		case models.LeadTypePlatsbesok:
			result.PlatsbesokCommissions += models.PlatsbesokCommission
			result.Breakdown = append(result.Breakdown, models.CommissionLineItem{
				Type:        models.LineItemPlatsbesok,
				Amount:      models.PlatsbesokCommission,
				Description: fmt.Sprintf("Platsbesok lead to %s", a.CompanyName),
				CompanyName: a.CompanyName,
			})
		default:
			return models.CommissionBreakdown{Breakdown: []models.CommissionLineItem{}}, fmt.Errorf("unknown lead type %q for company %s", a.LeadType, a.CompanyName)
		}
	}

	result.Total = result.BaseBonus + result.OffertCommissions + result.PlatsbesokCommissions
	return result, nil
}

// ValidateDealForCommission checks whether a deal is eligible for
// commission. All failing rules are collected so the caller can show a
// complete diagnostic. Business-rule failures come back as a normal
// IsValid=false result; only a nil deal is an error.
func ValidateDealForCommission(deal *models.Deal) (models.ValidationResult, error) {
	if deal == nil {
		return models.ValidationResult{}, ErrNilDeal
	}

	reasons := []string{}

	if deal.Stage != models.DealStageWon {
		reasons = append(reasons, fmt.Sprintf("deal is in stage %s, commission requires stage %s", deal.Stage, models.DealStageWon))
	}
	if len(deal.Companies) == 0 {
		reasons = append(reasons, "deal has no company assignments")
	}
	if len(deal.Companies) > models.MaxCompaniesPerLead {
		reasons = append(reasons, fmt.Sprintf("deal has %d company assignments, maximum is %d", len(deal.Companies), models.MaxCompaniesPerLead))
	}
	if deal.AdminApproval == models.ApprovalRejected {
		reasons = append(reasons, "deal has been rejected by admin")
	}
	for _, a := range deal.Companies {
		if a.LeadType != models.LeadTypeOffert && a.LeadType != models.LeadTypePlatsbesok {
			reasons = append(reasons, fmt.Sprintf("company %s has unknown lead type %q", a.CompanyName, a.LeadType))
		}
	}

	return models.ValidationResult{
		IsValid: len(reasons) == 0,
		Reasons: reasons,
	}, nil
}
