package models

import "time"

// Lead statuses as normalized from the call-center platform feed.
const (
	LeadStatusBooked    = "BOOKED"
	LeadStatusConverted = "CONVERTED"
	LeadStatusLost      = "LOST"
)

// Lead is a validated record from the call-center platform: an
// appointment a setter booked. Raw platform payloads are converted to
// this type at the service boundary; nothing loosely typed passes it.
type Lead struct {
	LeadID        int        `json:"leadId" validate:"required"`
	Status        string     `json:"status" validate:"required,oneof=BOOKED CONVERTED LOST"`
	AgentName     string     `json:"agentName" validate:"required"`
	ContactName   string     `json:"contactName"`
	Phone         string     `json:"phone,omitempty"`
	Email         string     `json:"email,omitempty" validate:"omitempty,email"`
	Address       string     `json:"address,omitempty"`
	AppointmentAt *time.Time `json:"appointmentAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}
