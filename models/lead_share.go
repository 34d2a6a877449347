package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreditWindowDays is the number of days a partner company has to return
// a lead and have its commission credited back.
const CreditWindowDays = 14

// LeadShare records handing one deal's contact details to one partner
// company. CreditWindowExpires is stamped once at share time as
// SharedAt + 14 days and is never recomputed.
type LeadShare struct {
	ID                  primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	DealID              int                `json:"dealId" bson:"dealId"`
	CompanyName         string             `json:"companyName" bson:"companyName"`
	SharedAt            time.Time          `json:"sharedAt" bson:"sharedAt"`
	CreditWindowExpires time.Time          `json:"creditWindowExpires" bson:"creditWindowExpires"`
	CreatedAt           time.Time          `json:"createdAt" bson:"createdAt"`
}

// CreditWindowExpiry returns the expiry for a share created at sharedAt.
func CreditWindowExpiry(sharedAt time.Time) time.Time {
	return sharedAt.Add(CreditWindowDays * 24 * time.Hour)
}
