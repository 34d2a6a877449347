package services

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nordsol/leadportal_backend/models"
)

// AdversusService handles interactions with the call-center platform API.
// Raw lead payloads never leave this package untyped: everything is
// converted to models.Lead and validated at this boundary.
type AdversusService struct {
	baseURL  string
	username string
	password string
	validate *validator.Validate
}

// NewAdversusService creates a new call-center platform client
func NewAdversusService() *AdversusService {
	baseURL := os.Getenv("ADVERSUS_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.adversus.io/v1"
	}

	username := os.Getenv("ADVERSUS_USERNAME")
	password := os.Getenv("ADVERSUS_PASSWORD")
	if username == "" || password == "" {
		log.Printf("WARNING: Adversus credentials not fully configured:")
		if username == "" {
			log.Printf("  - ADVERSUS_USERNAME is missing")
		}
		if password == "" {
			log.Printf("  - ADVERSUS_PASSWORD is missing")
		}
		log.Printf("Please set these environment variables for the lead feed to work")
	}

	return &AdversusService{
		baseURL:  baseURL,
		username: username,
		password: password,
		validate: validator.New(),
	}
}

// rawLead mirrors the platform's lead payload. Status, agent and contact
// details arrive as loosely structured fields.
type rawLead struct {
	ID           int                      `json:"id"`
	Status       string                   `json:"status"`
	Agent        string                   `json:"agentName"`
	CreatedAt    string                   `json:"created"`
	ResultFields []map[string]interface{} `json:"resultData"`
	MasterFields []map[string]interface{} `json:"masterData"`
}

func (s *AdversusService) makeRequest(method, endpoint string, query url.Values) ([]byte, error) {
	if s.username == "" || s.password == "" {
		return nil, fmt.Errorf("missing Adversus credentials. Please set ADVERSUS_USERNAME and ADVERSUS_PASSWORD environment variables")
	}

	reqURL := s.baseURL + endpoint
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequest(method, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(s.username, s.password)
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
		return nil, fmt.Errorf("adversus API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// FetchLeads fetches and converts all leads updated since the given time.
func (s *AdversusService) FetchLeads(since time.Time) ([]models.Lead, error) {
	query := url.Values{}
	query.Set("updatedAfter", since.UTC().Format(time.RFC3339))

	respBody, err := s.makeRequest(http.MethodGet, "/leads", query)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Leads []rawLead `json:"leads"`
	}
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse leads response: %w", err)
	}

	leads := make([]models.Lead, 0, len(payload.Leads))
	for _, raw := range payload.Leads {
		lead, err := s.ConvertRawLead(raw)
		if err != nil {
			return nil, fmt.Errorf("lead %d: %w", raw.ID, err)
		}
		leads = append(leads, *lead)
	}
	return leads, nil
}

// ConvertRawLead turns a raw platform payload into a validated Lead.
// Malformed records are rejected here rather than passed downstream.
func (s *AdversusService) ConvertRawLead(raw rawLead) (*models.Lead, error) {
	if raw.ID == 0 {
		return nil, fmt.Errorf("lead payload missing id")
	}

	status, err := normalizeLeadStatus(raw.Status)
	if err != nil {
		return nil, err
	}

	lead := &models.Lead{
		LeadID:      raw.ID,
		Status:      status,
		AgentName:   raw.Agent,
		ContactName: fieldString(raw.MasterFields, "name"),
		Phone:       fieldString(raw.MasterFields, "phone"),
		Email:       fieldString(raw.MasterFields, "email"),
		Address:     fieldString(raw.MasterFields, "address"),
	}

	if raw.CreatedAt != "" {
		createdAt, err := time.Parse(time.RFC3339, raw.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("invalid created timestamp %q: %w", raw.CreatedAt, err)
		}
		lead.CreatedAt = createdAt
	}

	if appointment := fieldString(raw.ResultFields, "appointmentTime"); appointment != "" {
		at, err := time.Parse(time.RFC3339, appointment)
		if err != nil {
			return nil, fmt.Errorf("invalid appointment timestamp %q: %w", appointment, err)
		}
		lead.AppointmentAt = &at
	}

	if err := s.validate.Struct(lead); err != nil {
		return nil, fmt.Errorf("lead failed validation: %w", err)
	}
	return lead, nil
}

func normalizeLeadStatus(status string) (string, error) {
	switch status {
	case "success", "booked":
		return models.LeadStatusBooked, nil
	case "converted", "won":
		return models.LeadStatusConverted, nil
	case "lost", "notInterested", "invalid":
		return models.LeadStatusLost, nil
	default:
		return "", fmt.Errorf("unknown lead status %q", status)
	}
}

// fieldString pulls the string value for a named custom field out of the
// platform's id/label/value triplets.
func fieldString(fields []map[string]interface{}, label string) string {
	for _, field := range fields {
		name, _ := field["label"].(string)
		if name != label {
			continue
		}
		switch v := field["value"].(type) {
		case string:
			return v
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}
