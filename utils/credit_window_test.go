package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nordsol/leadportal_backend/models"
)

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func TestDaysRemaining(t *testing.T) {
	expires := mustParse(t, "2024-01-15T00:00:00Z")

	tests := []struct {
		name string
		now  string
		want int
	}{
		{name: "five whole days", now: "2024-01-10T00:00:00Z", want: 5},
		{name: "fraction rounds up", now: "2024-01-10T12:00:00Z", want: 5},
		{name: "one hour left", now: "2024-01-14T23:00:00Z", want: 1},
		{name: "exactly expired", now: "2024-01-15T00:00:00Z", want: 0},
		{name: "long expired", now: "2024-02-01T00:00:00Z", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DaysRemaining(expires, mustParse(t, tt.now))
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
		})
	}
}

func TestCreditWindowStatus(t *testing.T) {
	expires := mustParse(t, "2024-01-15T00:00:00Z")

	tests := []struct {
		name string
		now  string
		want string
	}{
		{name: "active", now: "2024-01-10T00:00:00Z", want: models.CreditWindowActive},
		{name: "expiring at two days", now: "2024-01-13T06:00:00Z", want: models.CreditWindowExpiring},
		{name: "expiring at one day", now: "2024-01-14T06:00:00Z", want: models.CreditWindowExpiring},
		{name: "expired on the boundary", now: "2024-01-15T00:00:00Z", want: models.CreditWindowExpired},
		{name: "expired after", now: "2024-01-16T00:00:00Z", want: models.CreditWindowExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CreditWindowStatus(expires, mustParse(t, tt.now)))
		})
	}
}

func TestAlertUrgency(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{days: 0, want: models.UrgencyCritical},
		{days: 1, want: models.UrgencyCritical},
		{days: 2, want: models.UrgencyHigh},
		{days: 3, want: models.UrgencyHigh},
		{days: 4, want: models.UrgencyMedium},
		{days: 14, want: models.UrgencyMedium},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, AlertUrgency(tt.days), "days=%d", tt.days)
	}
}

func TestCreditWindowExpiry(t *testing.T) {
	sharedAt := mustParse(t, "2024-01-01T00:00:00Z")
	assert.Equal(t, mustParse(t, "2024-01-15T00:00:00Z"), models.CreditWindowExpiry(sharedAt))
}

func testShare(t *testing.T, dealID int, company, sharedAt string) models.LeadShare {
	t.Helper()
	shared := mustParse(t, sharedAt)
	return models.LeadShare{
		ID:                  primitive.NewObjectID(),
		DealID:              dealID,
		CompanyName:         company,
		SharedAt:            shared,
		CreditWindowExpires: models.CreditWindowExpiry(shared),
	}
}

func TestComputeCreditWindowAlerts_GroupsByDeal(t *testing.T) {
	shares := []models.LeadShare{
		testShare(t, 1, "Sol AB", "2024-01-01T00:00:00Z"),
		testShare(t, 1, "Tak AB", "2024-01-01T00:00:00Z"),
		testShare(t, 2, "Sol AB", "2024-01-05T00:00:00Z"),
	}
	deals := map[int]*models.Deal{
		1: {DealID: 1, Title: "Villa Eriksson", OpenerName: "Johan"},
		2: {DealID: 2, Title: "Villa Nilsson", OpenerName: "Sara"},
	}
	companies := map[string]*models.Company{
		"Sol AB": {Name: "Sol AB", Emails: []string{"info@sol.se"}},
		"Tak AB": {Name: "Tak AB"},
	}

	now := mustParse(t, "2024-01-10T00:00:00Z")
	alerts, err := ComputeCreditWindowAlerts(shares, deals, companies, now)
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	// Deal 1 expires first so it sorts first
	assert.Equal(t, 1, alerts[0].DealID)
	assert.Len(t, alerts[0].Companies, 2)
	assert.Equal(t, 5, alerts[0].DaysRemaining)
	assert.Equal(t, models.CreditWindowActive, alerts[0].Status)
	assert.Equal(t, models.UrgencyMedium, alerts[0].Urgency)
	assert.Equal(t, "info@sol.se", alerts[0].Companies[0].Email)

	assert.Equal(t, 2, alerts[1].DealID)
	assert.Equal(t, 9, alerts[1].DaysRemaining)
}

func TestComputeCreditWindowAlerts_ExpiredShare(t *testing.T) {
	shares := []models.LeadShare{
		testShare(t, 1, "Sol AB", "2024-01-01T00:00:00Z"),
	}
	deals := map[int]*models.Deal{
		1: {DealID: 1, Title: "Villa Eriksson", OpenerName: "Johan"},
	}
	companies := map[string]*models.Company{
		"Sol AB": {Name: "Sol AB"},
	}

	now := mustParse(t, "2024-01-16T00:00:00Z")
	alerts, err := ComputeCreditWindowAlerts(shares, deals, companies, now)
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	assert.Equal(t, models.CreditWindowExpired, alerts[0].Status)
	assert.Equal(t, 0, alerts[0].DaysRemaining)
	assert.Equal(t, models.UrgencyCritical, alerts[0].Urgency)
}

func TestComputeCreditWindowAlerts_CreditedCompanyStillListed(t *testing.T) {
	shares := []models.LeadShare{
		testShare(t, 1, "Sol AB", "2024-01-01T00:00:00Z"),
		testShare(t, 1, "Tak AB", "2024-01-01T00:00:00Z"),
	}
	deals := map[int]*models.Deal{
		1: {
			DealID: 1, Title: "Villa Eriksson", OpenerName: "Johan",
			Companies: []models.CompanyAssignment{
				{CompanyName: "Sol AB", LeadType: models.LeadTypeOffert, Credited: true},
				{CompanyName: "Tak AB", LeadType: models.LeadTypePlatsbesok},
			},
		},
	}
	companies := map[string]*models.Company{
		"Sol AB": {Name: "Sol AB"},
		"Tak AB": {Name: "Tak AB"},
	}

	now := mustParse(t, "2024-01-10T00:00:00Z")
	alerts, err := ComputeCreditWindowAlerts(shares, deals, companies, now)
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	assert.True(t, alerts[0].HasCreditedCompanies)
	assert.True(t, alerts[0].Companies[0].HasCredited)
	assert.False(t, alerts[0].Companies[1].HasCredited)
}

func TestComputeCreditWindowAlerts_CreditFlagSurvivesWipedSlot(t *testing.T) {
	shares := []models.LeadShare{
		testShare(t, 1, "Sol AB", "2024-01-01T00:00:00Z"),
	}
	// Slot flag reset by a sync refresh; creditedCompanies still has it
	deals := map[int]*models.Deal{
		1: {
			DealID: 1, Title: "Villa Eriksson", OpenerName: "Johan",
			Companies: []models.CompanyAssignment{
				{CompanyName: "Sol AB", LeadType: models.LeadTypeOffert, Credited: false},
			},
			CreditedCompanies: []string{"Sol AB"},
		},
	}
	companies := map[string]*models.Company{
		"Sol AB": {Name: "Sol AB"},
	}

	now := mustParse(t, "2024-01-10T00:00:00Z")
	alerts, err := ComputeCreditWindowAlerts(shares, deals, companies, now)
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	assert.True(t, alerts[0].HasCreditedCompanies)
	assert.True(t, alerts[0].Companies[0].HasCredited)
}

func TestComputeCreditWindowAlerts_MissingRelationsFail(t *testing.T) {
	shares := []models.LeadShare{
		testShare(t, 1, "Sol AB", "2024-01-01T00:00:00Z"),
	}
	now := mustParse(t, "2024-01-10T00:00:00Z")

	_, err := ComputeCreditWindowAlerts(shares, map[int]*models.Deal{}, map[string]*models.Company{
		"Sol AB": {Name: "Sol AB"},
	}, now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown deal")

	_, err = ComputeCreditWindowAlerts(shares, map[int]*models.Deal{
		1: {DealID: 1},
	}, map[string]*models.Company{}, now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown company")
}

func TestComputeCreditWindowAlerts_NoShares(t *testing.T) {
	alerts, err := ComputeCreditWindowAlerts(nil, nil, nil, time.Now())
	require.NoError(t, err)
	assert.Empty(t, alerts)
}
