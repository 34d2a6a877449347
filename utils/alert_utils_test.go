package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordsol/leadportal_backend/models"
)

func sampleAlerts() []models.CreditWindowAlert {
	return []models.CreditWindowAlert{
		{
			DealID:        101,
			DealTitle:     "Villa Eriksson",
			Opener:        "Johan",
			DaysRemaining: 1,
			Status:        models.CreditWindowExpiring,
			Urgency:       models.UrgencyCritical,
			Companies: []models.AlertCompany{
				{Name: "Solbolaget AB", Email: "info@solbolaget.se"},
			},
		},
		{
			DealID:        102,
			DealTitle:     "Radhus Nilsson",
			Opener:        "Maria",
			DaysRemaining: 2,
			Status:        models.CreditWindowExpiring,
			Urgency:       models.UrgencyHigh,
			Companies: []models.AlertCompany{
				{Name: "Taksol AB", Email: "kontakt@taksol.se"},
				{Name: "Energi Nord AB", Email: "nord@energinord.se", HasCredited: true},
			},
		},
		{
			DealID:        103,
			DealTitle:     "Villa Svensson",
			Opener:        "Johan",
			DaysRemaining: 9,
			Status:        models.CreditWindowActive,
			Urgency:       models.UrgencyMedium,
			Companies: []models.AlertCompany{
				{Name: "Solbolaget AB", Email: "info@solbolaget.se"},
			},
		},
		{
			DealID:        104,
			DealTitle:     "Villa Lund",
			Opener:        "Maria",
			DaysRemaining: 0,
			Status:        models.CreditWindowExpired,
			Urgency:       models.UrgencyCritical,
			Companies: []models.AlertCompany{
				{Name: "Taksol AB", Email: "kontakt@taksol.se"},
			},
		},
	}
}

func TestCountAlerts(t *testing.T) {
	counts := CountAlerts(sampleAlerts())

	assert.Equal(t, 2, counts.Critical)
	assert.Equal(t, 2, counts.Expiring)
	assert.Equal(t, 1, counts.Expired)
}

func TestCountAlerts_Empty(t *testing.T) {
	assert.Equal(t, AlertCounts{}, CountAlerts(nil))
}

func TestBuildAlertEmail(t *testing.T) {
	subject, body := BuildAlertEmail(sampleAlerts())

	assert.Equal(t, "Credit window digest: 2 critical, 2 expiring, 1 expired", subject)

	assert.Contains(t, body, "Deal 101 (Villa Eriksson)")
	assert.Contains(t, body, "1 day(s) remaining")
	assert.Contains(t, body, "Energi Nord AB (credited back)")
	// Non-credited companies have no marker
	assert.NotContains(t, body, "Solbolaget AB (credited back)")
	assert.Contains(t, body, "Total: 2 critical, 2 expiring, 1 expired.")
}

func TestBuildAlertEmail_NoAlerts(t *testing.T) {
	subject, body := BuildAlertEmail(nil)

	assert.Equal(t, "Credit window digest: 0 critical, 0 expiring, 0 expired", subject)
	assert.Contains(t, body, "No shared leads with open credit windows.")
}

func TestBuildAlertWebhookPayload(t *testing.T) {
	alerts := sampleAlerts()
	payload := BuildAlertWebhookPayload(alerts)

	assert.NotEmpty(t, payload.DeliveryID)
	assert.False(t, payload.GeneratedAt.IsZero())
	assert.Equal(t, 2, payload.CriticalCount)
	assert.Equal(t, 2, payload.ExpiringCount)
	assert.Equal(t, 1, payload.ExpiredCount)
	require.Len(t, payload.Alerts, len(alerts))
	assert.Equal(t, alerts[0].DealID, payload.Alerts[0].DealID)

	// Each delivery carries its own id
	assert.NotEqual(t, payload.DeliveryID, BuildAlertWebhookPayload(alerts).DeliveryID)
}

func TestBuildAlertChatMessage(t *testing.T) {
	msg := BuildAlertChatMessage(sampleAlerts())

	assert.True(t, strings.HasPrefix(msg.Text, ":rotating_light: Credit windows: 2 critical, 2 expiring, 1 expired"))
	assert.Contains(t, msg.Text, "Deal 101 (Villa Eriksson)")
	assert.Contains(t, msg.Text, "Deal 102 (Radhus Nilsson)")
	assert.Contains(t, msg.Text, "Deal 104 (Villa Lund)")
	// Medium urgency stays out of chat noise
	assert.NotContains(t, msg.Text, "Deal 103")
}

func TestBuildAlertChatMessage_NoAlerts(t *testing.T) {
	msg := BuildAlertChatMessage(nil)
	assert.Equal(t, "Credit windows: nothing open right now.", msg.Text)
}
