// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User types
const (
	UserTypeAdmin  = "admin"
	UserTypeSetter = "setter"
)

// User is a dashboard or portal account. Setters ("openers") are the
// sales agents who book appointments; admins run the dashboard.
type User struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email          string             `json:"email" bson:"email"`
	Password       string             `json:"password,omitempty" bson:"password"`
	FullName       string             `json:"fullName" bson:"fullName"`
	UserType       string             `json:"userType" bson:"userType"` // "admin", "setter"
	IsActive       bool               `json:"isActive" bson:"isActive"`
	Phone          string             `json:"phone,omitempty" bson:"phone,omitempty"`
	AgentName      string             `json:"agentName,omitempty" bson:"agentName,omitempty"` // name in the call-center platform
	LastActivityAt time.Time          `json:"lastActivityAt" bson:"lastActivityAt"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// LoginRequest is the request body for admin and setter logins.
type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe,omitempty"`
}

// CreateUserRequest is the request body for an admin creating an account.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"fullName" validate:"required"`
	UserType string `json:"userType" validate:"required,oneof=admin setter"`
	Phone    string `json:"phone,omitempty"`
	AgentName string `json:"agentName,omitempty"`
}

// Response is the standard API response envelope.
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
