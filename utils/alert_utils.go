// utils/alert_utils.go
package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nordsol/leadportal_backend/models"
)

// AlertCounts summarizes a set of credit window alerts.
type AlertCounts struct {
	Critical int
	Expiring int
	Expired  int
}

// CountAlerts tallies alerts by urgency and status.
func CountAlerts(alerts []models.CreditWindowAlert) AlertCounts {
	counts := AlertCounts{}
	for _, alert := range alerts {
		if alert.Urgency == models.UrgencyCritical {
			counts.Critical++
		}
		switch alert.Status {
		case models.CreditWindowExpiring:
			counts.Expiring++
		case models.CreditWindowExpired:
			counts.Expired++
		}
	}
	return counts
}

// BuildAlertEmail renders the credit window digest as a plain-text email.
// Delivery happens elsewhere; this only returns subject and body.
func BuildAlertEmail(alerts []models.CreditWindowAlert) (string, string) {
	counts := CountAlerts(alerts)
	subject := fmt.Sprintf("Credit window digest: %d critical, %d expiring, %d expired", counts.Critical, counts.Expiring, counts.Expired)

	var b strings.Builder
	b.WriteString("Credit window status for shared leads:\n\n")
	if len(alerts) == 0 {
		b.WriteString("No shared leads with open credit windows.\n")
		return subject, b.String()
	}

	for _, alert := range alerts {
		companies := make([]string, 0, len(alert.Companies))
		for _, c := range alert.Companies {
			name := c.Name
			if c.HasCredited {
				name += " (credited back)"
			}
			companies = append(companies, name)
		}
		fmt.Fprintf(&b, "- Deal %d (%s), opener %s: %s, %d day(s) remaining [%s]\n",
			alert.DealID, alert.DealTitle, alert.Opener, strings.Join(companies, ", "), alert.DaysRemaining, alert.Urgency)
	}

	fmt.Fprintf(&b, "\nTotal: %d critical, %d expiring, %d expired.\n", counts.Critical, counts.Expiring, counts.Expired)
	return subject, b.String()
}

// BuildAlertWebhookPayload builds the generic webhook body for the alert
// set.
func BuildAlertWebhookPayload(alerts []models.CreditWindowAlert) models.AlertWebhookPayload {
	counts := CountAlerts(alerts)
	return models.AlertWebhookPayload{
		DeliveryID:    uuid.NewString(),
		GeneratedAt:   time.Now(),
		CriticalCount: counts.Critical,
		ExpiringCount: counts.Expiring,
		ExpiredCount:  counts.Expired,
		Alerts:        alerts,
	}
}

// BuildAlertChatMessage builds the chat webhook body (Slack-compatible).
func BuildAlertChatMessage(alerts []models.CreditWindowAlert) models.ChatWebhookMessage {
	counts := CountAlerts(alerts)
	if len(alerts) == 0 {
		return models.ChatWebhookMessage{Text: "Credit windows: nothing open right now."}
	}

	var b strings.Builder
	fmt.Fprintf(&b, ":rotating_light: Credit windows: %d critical, %d expiring, %d expired\n", counts.Critical, counts.Expiring, counts.Expired)
	for _, alert := range alerts {
		if alert.Urgency == models.UrgencyMedium {
			continue
		}
		fmt.Fprintf(&b, "• Deal %d (%s) – %d day(s) left, opener %s\n", alert.DealID, alert.DealTitle, alert.DaysRemaining, alert.Opener)
	}
	return models.ChatWebhookMessage{Text: strings.TrimRight(b.String(), "\n")}
}
