// models/deal.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxCompaniesPerLead is the maximum number of partner companies a single
// deal can be shared with.
const MaxCompaniesPerLead = 4

// Lead types sold to partner companies
const (
	LeadTypeOffert     = "OFFERT"     // request for a quote
	LeadTypePlatsbesok = "PLATSBESOK" // request for an on-site visit
)

// Pipeline stages
const (
	DealStageOpen = "OPEN"
	DealStageWon  = "WON"
	DealStageLost = "LOST"
)

// Admin approval states
const (
	ApprovalPending  = "PENDING"
	ApprovalApproved = "APPROVED"
	ApprovalRejected = "REJECTED"
)

// CompanyAssignment is one of the up to four company slots on a deal.
// Credited is flipped when the company returns the lead within its
// credit window.
type CompanyAssignment struct {
	CompanyName string `json:"companyName" bson:"companyName" validate:"required"`
	LeadType    string `json:"leadType" bson:"leadType" validate:"required,oneof=OFFERT PLATSBESOK"`
	Credited    bool   `json:"credited" bson:"credited"`
}

// Deal represents a sales opportunity created when a setter's booked
// appointment converts in the CRM. DealID is the CRM's numeric deal id;
// ID is our own document id.
type Deal struct {
	ID                primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	DealID            int                 `json:"dealId" bson:"dealId"`
	Title             string              `json:"title" bson:"title"`
	ContactPerson     string              `json:"contactPerson,omitempty" bson:"contactPerson,omitempty"`
	SetterID          primitive.ObjectID  `json:"setterId,omitempty" bson:"setterId,omitempty"`
	OpenerName        string              `json:"openerName" bson:"openerName"`
	Stage             string              `json:"stage" bson:"stage"`                 // OPEN, WON, LOST
	AdminApproval     string              `json:"adminApproval" bson:"adminApproval"` // PENDING, APPROVED, REJECTED
	Companies         []CompanyAssignment `json:"companies" bson:"companies"`
	TotalCommission   int                 `json:"totalCommission" bson:"totalCommission"` // SEK
	BaseBonus         int                 `json:"baseBonus" bson:"baseBonus"`             // SEK
	CreditedCompanies []string            `json:"creditedCompanies,omitempty" bson:"creditedCompanies,omitempty"`
	Version           int64               `json:"version" bson:"version"`
	CreatedAt         time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// CreditedFor reports whether the named company has credited back its
// commission on this deal. Both the per-slot flag and the
// creditedCompanies list count; the list is authoritative even when a
// slot's flag has been lost.
func (d *Deal) CreditedFor(companyName string) bool {
	for _, c := range d.Companies {
		if c.CompanyName == companyName && c.Credited {
			return true
		}
	}
	for _, name := range d.CreditedCompanies {
		if name == companyName {
			return true
		}
	}
	return false
}

// RestoreCreditedState re-applies this deal's stored credited state onto
// freshly synced assignments. CRM payloads know nothing about
// credit-backs, so without this a sync would wipe the per-slot flags and
// the next recalculation would re-award a clawed-back commission.
func (d *Deal) RestoreCreditedState(assignments []CompanyAssignment) {
	for i := range assignments {
		if d.CreditedFor(assignments[i].CompanyName) {
			assignments[i].Credited = true
		}
	}
}

// ShareDealRequest is the request body for sharing a deal with partner
// companies.
type ShareDealRequest struct {
	CompanyNames []string `json:"companyNames" validate:"required,min=1,max=4"`
}

// CreditBackRequest is the request body for a partner company returning a
// lead within its credit window.
type CreditBackRequest struct {
	CompanyName string `json:"companyName" validate:"required"`
	Reason      string `json:"reason,omitempty"`
}

// ApprovalRequest is the request body for an admin approving or rejecting
// a deal.
type ApprovalRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
	Note   string `json:"note,omitempty"`
}
