package models

import "time"

// Credit window statuses, derived from expiry vs the current time and
// never persisted.
const (
	CreditWindowActive   = "active"
	CreditWindowExpiring = "expiring"
	CreditWindowExpired  = "expired"
)

// Alert urgency tiers
const (
	UrgencyCritical = "critical"
	UrgencyHigh     = "high"
	UrgencyMedium   = "medium"
)

// AlertCompany is one partner company inside a credit window alert.
// Credited companies stay in the list so operators see the full state.
type AlertCompany struct {
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	HasCredited bool   `json:"hasCredited"`
}

// CreditWindowAlert is one deal's credit window state, grouped across all
// companies the deal was shared with.
type CreditWindowAlert struct {
	DealID               int            `json:"dealId"`
	DealTitle            string         `json:"dealTitle"`
	Opener               string         `json:"opener"`
	Companies            []AlertCompany `json:"companies"`
	DaysRemaining        int            `json:"daysRemaining"`
	Status               string         `json:"status"`
	Urgency              string         `json:"urgency"`
	HasCreditedCompanies bool           `json:"hasCreditedCompanies"`
}

// AlertWebhookPayload is the generic webhook body built from a set of
// credit window alerts. Delivery itself happens elsewhere.
type AlertWebhookPayload struct {
	DeliveryID    string              `json:"deliveryId"`
	GeneratedAt   time.Time           `json:"generatedAt"`
	CriticalCount int                 `json:"criticalCount"`
	ExpiringCount int                 `json:"expiringCount"`
	ExpiredCount  int                 `json:"expiredCount"`
	Alerts        []CreditWindowAlert `json:"alerts"`
}

// ChatWebhookMessage is the chat (Slack-compatible) webhook body.
type ChatWebhookMessage struct {
	Text string `json:"text"`
}
