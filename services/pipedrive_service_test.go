package services

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordsol/leadportal_backend/models"
)

func testPipedriveService() *PipedriveService {
	return &PipedriveService{
		baseURL:           "https://api.pipedrive.example/v1",
		apiToken:          "test-token",
		validate:          validator.New(),
		companyFieldKeys:  []string{"cf_company_1", "cf_company_2", "cf_company_3", "cf_company_4"},
		leadTypeFieldKeys: []string{"cf_leadtype_1", "cf_leadtype_2", "cf_leadtype_3", "cf_leadtype_4"},
	}
}

func TestConvertRawDeal(t *testing.T) {
	s := testPipedriveService()

	raw := rawDeal{
		ID:         4211,
		Title:      "Villa Eriksson",
		Status:     "won",
		OwnerName:  "Johan",
		PersonName: "Erik Eriksson",
		AddTime:    "2024-01-05 09:30:00",
		CustomFields: map[string]interface{}{
			"cf_company_1":  "Solbolaget AB",
			"cf_leadtype_1": "OFFERT",
			"cf_company_2":  "Taksol AB",
			"cf_leadtype_2": "platsbesok",
		},
	}

	deal, err := s.ConvertRawDeal(raw)
	require.NoError(t, err)

	assert.Equal(t, 4211, deal.DealID)
	assert.Equal(t, "Villa Eriksson", deal.Title)
	assert.Equal(t, models.DealStageWon, deal.Stage)
	assert.Equal(t, models.ApprovalPending, deal.AdminApproval)
	assert.Equal(t, time.Date(2024, 1, 5, 9, 30, 0, 0, time.UTC), deal.CreatedAt)

	require.Len(t, deal.Companies, 2)
	assert.Equal(t, "Solbolaget AB", deal.Companies[0].CompanyName)
	assert.Equal(t, models.LeadTypeOffert, deal.Companies[0].LeadType)
	// Lead type values are normalized to upper case
	assert.Equal(t, models.LeadTypePlatsbesok, deal.Companies[1].LeadType)
}

func TestConvertRawDeal_SkipsEmptySlots(t *testing.T) {
	s := testPipedriveService()

	raw := rawDeal{
		ID:     4212,
		Status: "open",
		CustomFields: map[string]interface{}{
			"cf_company_3":  "Energi Nord AB",
			"cf_leadtype_3": "OFFERT",
		},
	}

	deal, err := s.ConvertRawDeal(raw)
	require.NoError(t, err)
	require.Len(t, deal.Companies, 1)
	assert.Equal(t, "Energi Nord AB", deal.Companies[0].CompanyName)
}

func TestConvertRawDeal_RejectsUnknownLeadType(t *testing.T) {
	s := testPipedriveService()

	raw := rawDeal{
		ID:     4213,
		Status: "won",
		CustomFields: map[string]interface{}{
			"cf_company_1":  "Solbolaget AB",
			"cf_leadtype_1": "BESIKTNING",
		},
	}

	_, err := s.ConvertRawDeal(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown lead type")
}

func TestConvertRawDeal_RejectsOccupiedSlotWithoutLeadType(t *testing.T) {
	s := testPipedriveService()

	raw := rawDeal{
		ID:     4214,
		Status: "open",
		CustomFields: map[string]interface{}{
			"cf_company_1": "Solbolaget AB",
		},
	}

	_, err := s.ConvertRawDeal(raw)
	require.Error(t, err)
}

func TestConvertRawDeal_MissingID(t *testing.T) {
	s := testPipedriveService()

	_, err := s.ConvertRawDeal(rawDeal{Status: "open"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing id")
}

func TestConvertRawDeal_UnknownStatus(t *testing.T) {
	s := testPipedriveService()

	_, err := s.ConvertRawDeal(rawDeal{ID: 4215, Status: "paused"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown deal status")
}

func TestNormalizeDealStage(t *testing.T) {
	tests := []struct {
		status  string
		want    string
		wantErr bool
	}{
		{status: "open", want: models.DealStageOpen},
		{status: "won", want: models.DealStageWon},
		{status: "lost", want: models.DealStageLost},
		{status: "deleted", want: models.DealStageLost},
		{status: "", wantErr: true},
		{status: "WON", wantErr: true},
	}

	for _, tt := range tests {
		got, err := normalizeDealStage(tt.status)
		if tt.wantErr {
			assert.Error(t, err, "status=%q", tt.status)
			continue
		}
		require.NoError(t, err, "status=%q", tt.status)
		assert.Equal(t, tt.want, got)
	}
}
