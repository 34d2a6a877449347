// models/company.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Company is a partner business that purchases leads from us.
type Company struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	OrgNumber     string             `json:"orgNumber,omitempty" bson:"orgNumber,omitempty"`
	ContactPerson string             `json:"contactPerson,omitempty" bson:"contactPerson,omitempty"`
	Emails        []string           `json:"emails,omitempty" bson:"emails,omitempty"`
	Phones        []string           `json:"phones,omitempty" bson:"phones,omitempty"`
	City          string             `json:"city,omitempty" bson:"city,omitempty"`
	IsActive      bool               `json:"isActive" bson:"isActive"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PrimaryEmail returns the first contact email, or empty string.
func (c *Company) PrimaryEmail() string {
	if len(c.Emails) > 0 {
		return c.Emails[0]
	}
	return ""
}

// CreateCompanyRequest is the request body for registering a partner
// company.
type CreateCompanyRequest struct {
	Name          string   `json:"name" validate:"required"`
	OrgNumber     string   `json:"orgNumber,omitempty"`
	ContactPerson string   `json:"contactPerson,omitempty"`
	Emails        []string `json:"emails,omitempty" validate:"omitempty,dive,email"`
	Phones        []string `json:"phones,omitempty"`
	City          string   `json:"city,omitempty"`
}

// UpdateCompanyRequest is the request body for updating a partner company.
// Nil fields are left unchanged.
type UpdateCompanyRequest struct {
	Name          *string   `json:"name,omitempty"`
	OrgNumber     *string   `json:"orgNumber,omitempty"`
	ContactPerson *string   `json:"contactPerson,omitempty"`
	Emails        *[]string `json:"emails,omitempty"`
	Phones        *[]string `json:"phones,omitempty"`
	City          *string   `json:"city,omitempty"`
	IsActive      *bool     `json:"isActive,omitempty"`
}
