package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Commission amounts in SEK. Amounts are fixed by lead type and are never
// set freely.
const (
	BaseBonusAmount      = 100
	OffertCommission     = 100
	PlatsbesokCommission = 300
)

// Commission line item types
const (
	LineItemBaseBonus  = "base_bonus"
	LineItemOffert     = "offert"
	LineItemPlatsbesok = "platsbesok"
)

// CommissionLineItem is one entry in a deal's commission breakdown.
type CommissionLineItem struct {
	Type        string `json:"type"`
	Amount      int    `json:"amount"` // SEK
	Description string `json:"description"`
	CompanyName string `json:"companyName,omitempty"`
}

// CommissionBreakdown is the result of calculating commission for a deal.
type CommissionBreakdown struct {
	BaseBonus             int                  `json:"baseBonus"`
	OffertCommissions     int                  `json:"offertCommissions"`
	PlatsbesokCommissions int                  `json:"platsbesokCommissions"`
	Total                 int                  `json:"total"`
	Breakdown             []CommissionLineItem `json:"breakdown"`
}

// Commission is the persisted line item: money owed for one
// (deal, company, lead type) combination. CreditedBack flips when the
// company returns the lead within the credit window; the amount is kept
// for audit.
type Commission struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	DealID       int                `json:"dealId" bson:"dealId"`
	CompanyName  string             `json:"companyName" bson:"companyName"`
	LeadType     string             `json:"leadType" bson:"leadType"`
	Amount       int                `json:"amount" bson:"amount"` // SEK
	CreditedBack bool               `json:"creditedBack" bson:"creditedBack"`
	CreditedAt   *time.Time         `json:"creditedAt,omitempty" bson:"creditedAt,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}

// ValidationResult is the outcome of checking a deal's eligibility for
// commission. Business-rule failures are normal results, never errors.
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Reasons []string `json:"reasons"`
}
