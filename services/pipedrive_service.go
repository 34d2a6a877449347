package services

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nordsol/leadportal_backend/models"
)

// PipedriveService handles interactions with the CRM API. Deal payloads
// carry the company assignments in custom fields; they are converted to
// models.Deal and validated before anything downstream sees them.
type PipedriveService struct {
	baseURL  string
	apiToken string
	validate *validator.Validate

	// Custom field keys for the up to four company slots and their lead
	// types, configured per CRM account.
	companyFieldKeys  []string
	leadTypeFieldKeys []string
}

// NewPipedriveService creates a new CRM client
func NewPipedriveService() *PipedriveService {
	baseURL := os.Getenv("PIPEDRIVE_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.pipedrive.com/v1"
	}

	apiToken := os.Getenv("PIPEDRIVE_API_TOKEN")
	if apiToken == "" {
		log.Printf("WARNING: PIPEDRIVE_API_TOKEN is not set; the deal feed will not work")
	}

	companyKeys := splitEnvKeys("PIPEDRIVE_COMPANY_FIELD_KEYS")
	leadTypeKeys := splitEnvKeys("PIPEDRIVE_LEADTYPE_FIELD_KEYS")
	if len(companyKeys) == 0 || len(companyKeys) != len(leadTypeKeys) {
		log.Printf("WARNING: company/lead-type custom field keys not configured correctly; set PIPEDRIVE_COMPANY_FIELD_KEYS and PIPEDRIVE_LEADTYPE_FIELD_KEYS")
	}

	return &PipedriveService{
		baseURL:           baseURL,
		apiToken:          apiToken,
		validate:          validator.New(),
		companyFieldKeys:  companyKeys,
		leadTypeFieldKeys: leadTypeKeys,
	}
}

func splitEnvKeys(name string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	return keys
}

// rawDeal mirrors the CRM's deal payload; custom fields arrive keyed by
// opaque hash strings.
type rawDeal struct {
	ID            int                    `json:"id"`
	Title         string                 `json:"title"`
	Status        string                 `json:"status"`
	OwnerName     string                 `json:"owner_name"`
	PersonName    string                 `json:"person_name"`
	AddTime       string                 `json:"add_time"`
	CustomFields  map[string]interface{} `json:"custom_fields"`
}

func (s *PipedriveService) makeRequest(method, endpoint string, query url.Values) ([]byte, error) {
	if s.apiToken == "" {
		return nil, fmt.Errorf("missing CRM credentials. Please set PIPEDRIVE_API_TOKEN")
	}

	if query == nil {
		query = url.Values{}
	}
	query.Set("api_token", s.apiToken)
	reqURL := s.baseURL + endpoint + "?" + query.Encode()

	req, err := http.NewRequest(method, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("pipedrive API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// FetchDeals fetches and converts all deals in the pipeline.
func (s *PipedriveService) FetchDeals() ([]models.Deal, error) {
	respBody, err := s.makeRequest(http.MethodGet, "/deals", nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Success bool      `json:"success"`
		Data    []rawDeal `json:"data"`
	}
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse deals response: %w", err)
	}
	if !payload.Success {
		return nil, fmt.Errorf("pipedrive API reported failure")
	}

	deals := make([]models.Deal, 0, len(payload.Data))
	for _, raw := range payload.Data {
		deal, err := s.ConvertRawDeal(raw)
		if err != nil {
			return nil, fmt.Errorf("deal %d: %w", raw.ID, err)
		}
		deals = append(deals, *deal)
	}
	return deals, nil
}

// ConvertRawDeal turns a raw CRM payload into a validated Deal. Slots
// with a company but an unknown lead type are a malformed record and are
// rejected, not silently skipped.
func (s *PipedriveService) ConvertRawDeal(raw rawDeal) (*models.Deal, error) {
	if raw.ID == 0 {
		return nil, fmt.Errorf("deal payload missing id")
	}

	stage, err := normalizeDealStage(raw.Status)
	if err != nil {
		return nil, err
	}

	deal := &models.Deal{
		DealID:        raw.ID,
		Title:         raw.Title,
		ContactPerson: raw.PersonName,
		OpenerName:    raw.OwnerName,
		Stage:         stage,
		AdminApproval: models.ApprovalPending,
	}

	if raw.AddTime != "" {
		createdAt, err := time.Parse("2006-01-02 15:04:05", raw.AddTime)
		if err != nil {
			return nil, fmt.Errorf("invalid add_time %q: %w", raw.AddTime, err)
		}
		deal.CreatedAt = createdAt
	}

	for i, companyKey := range s.companyFieldKeys {
		companyName, _ := raw.CustomFields[companyKey].(string)
		if companyName == "" {
			continue
		}
		leadType, _ := raw.CustomFields[s.leadTypeFieldKeys[i]].(string)
		leadType = strings.ToUpper(strings.TrimSpace(leadType))
		if leadType != models.LeadTypeOffert && leadType != models.LeadTypePlatsbesok {
			return nil, fmt.Errorf("company slot %d (%s) has unknown lead type %q", i+1, companyName, leadType)
		}
		deal.Companies = append(deal.Companies, models.CompanyAssignment{
			CompanyName: companyName,
			LeadType:    leadType,
		})
	}

	if len(deal.Companies) > models.MaxCompaniesPerLead {
		return nil, fmt.Errorf("deal has %d company slots, maximum is %d", len(deal.Companies), models.MaxCompaniesPerLead)
	}

	for _, a := range deal.Companies {
		if err := s.validate.Struct(a); err != nil {
			return nil, fmt.Errorf("company assignment failed validation: %w", err)
		}
	}

	return deal, nil
}

func normalizeDealStage(status string) (string, error) {
	switch status {
	case "open":
		return models.DealStageOpen, nil
	case "won":
		return models.DealStageWon, nil
	case "lost", "deleted":
		return models.DealStageLost, nil
	default:
		return "", fmt.Errorf("unknown deal status %q", status)
	}
}
