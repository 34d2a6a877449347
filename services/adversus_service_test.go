package services

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordsol/leadportal_backend/models"
)

func testAdversusService() *AdversusService {
	return &AdversusService{
		baseURL:  "https://api.adversus.example/v1",
		username: "user",
		password: "pass",
		validate: validator.New(),
	}
}

func TestConvertRawLead(t *testing.T) {
	s := testAdversusService()

	raw := rawLead{
		ID:        9001,
		Status:    "success",
		Agent:     "Maria",
		CreatedAt: "2024-01-05T08:00:00Z",
		MasterFields: []map[string]interface{}{
			{"label": "name", "value": "Erik Eriksson"},
			{"label": "phone", "value": float64(707123456)},
			{"label": "email", "value": "erik@example.se"},
			{"label": "address", "value": "Solvägen 1, Uppsala"},
		},
		ResultFields: []map[string]interface{}{
			{"label": "appointmentTime", "value": "2024-01-08T10:00:00Z"},
		},
	}

	lead, err := s.ConvertRawLead(raw)
	require.NoError(t, err)

	assert.Equal(t, 9001, lead.LeadID)
	assert.Equal(t, models.LeadStatusBooked, lead.Status)
	assert.Equal(t, "Maria", lead.AgentName)
	assert.Equal(t, "Erik Eriksson", lead.ContactName)
	// Numeric field values are rendered as plain strings
	assert.Equal(t, "707123456", lead.Phone)
	assert.Equal(t, "erik@example.se", lead.Email)
	require.NotNil(t, lead.AppointmentAt)
	assert.Equal(t, time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC), *lead.AppointmentAt)
}

func TestConvertRawLead_Errors(t *testing.T) {
	s := testAdversusService()

	tests := []struct {
		name string
		raw  rawLead
	}{
		{
			name: "missing id",
			raw:  rawLead{Status: "success", Agent: "Maria"},
		},
		{
			name: "unknown status",
			raw:  rawLead{ID: 1, Status: "callback", Agent: "Maria"},
		},
		{
			name: "missing agent",
			raw:  rawLead{ID: 1, Status: "success"},
		},
		{
			name: "bad created timestamp",
			raw:  rawLead{ID: 1, Status: "success", Agent: "Maria", CreatedAt: "05/01/2024"},
		},
		{
			name: "bad email",
			raw: rawLead{ID: 1, Status: "success", Agent: "Maria", MasterFields: []map[string]interface{}{
				{"label": "email", "value": "not-an-email"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ConvertRawLead(tt.raw)
			assert.Error(t, err)
		})
	}
}

func TestNormalizeLeadStatus(t *testing.T) {
	tests := []struct {
		status  string
		want    string
		wantErr bool
	}{
		{status: "success", want: models.LeadStatusBooked},
		{status: "booked", want: models.LeadStatusBooked},
		{status: "converted", want: models.LeadStatusConverted},
		{status: "won", want: models.LeadStatusConverted},
		{status: "lost", want: models.LeadStatusLost},
		{status: "notInterested", want: models.LeadStatusLost},
		{status: "invalid", want: models.LeadStatusLost},
		{status: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := normalizeLeadStatus(tt.status)
		if tt.wantErr {
			assert.Error(t, err, "status=%q", tt.status)
			continue
		}
		require.NoError(t, err, "status=%q", tt.status)
		assert.Equal(t, tt.want, got)
	}
}

func TestFieldString(t *testing.T) {
	fields := []map[string]interface{}{
		{"label": "name", "value": "Erik"},
		{"label": "zip", "value": float64(75320)},
		{"label": "note", "value": nil},
	}

	assert.Equal(t, "Erik", fieldString(fields, "name"))
	assert.Equal(t, "75320", fieldString(fields, "zip"))
	assert.Equal(t, "", fieldString(fields, "note"))
	assert.Equal(t, "", fieldString(fields, "missing"))
}
