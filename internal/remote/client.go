// Package remote is the HTTP client for the consultation collaborator.
// Transport failures and non-2xx responses are deliberately collapsed
// into a single NetworkError kind: every caller treats them the same
// way, by falling back locally.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"servaura/internal/models"

	"github.com/rs/zerolog"
)

// NetworkError is the one distinguished client-side failure. Status is
// zero for transport errors.
type NetworkError struct {
	Op     string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("remote %s: unexpected status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("remote %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Config points the client at a collaborator instance. APIKey/Extra are
// optional; when set they are attached to every request.
type Config struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Extra   string `yaml:"extra"`
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *zerolog.Logger
}

// NewClient builds a client. No timeout is configured: once issued, a
// call runs to completion and its continuation fires exactly once.
func NewClient(cfg Config, logger *zerolog.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, http: &http.Client{}, logger: logger}
}

// CreateConsultation posts a new consultation request and returns the
// server-assigned record.
func (c *Client) CreateConsultation(ctx context.Context, req models.CreateRequest) (*models.Consultation, error) {
	var created models.Consultation
	if err := c.do(ctx, "create", http.MethodPost, "/api/v1/consultations", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListConsultations fetches the full consultation collection.
func (c *Client) ListConsultations(ctx context.Context) ([]models.Consultation, error) {
	var out []models.Consultation
	if err := c.do(ctx, "list", http.MethodGet, "/api/v1/consultations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateConsultationStatus patches the status of a consultation and
// returns the updated record.
func (c *Client) UpdateConsultationStatus(ctx context.Context, id, status string) (*models.Consultation, error) {
	body := map[string]string{"status": status}
	var updated models.Consultation
	if err := c.do(ctx, "update_status", http.MethodPatch, "/api/v1/consultations/"+id, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// CancelConsultation deletes a consultation server-side.
func (c *Client) CancelConsultation(ctx context.Context, id string) error {
	return c.do(ctx, "cancel", http.MethodDelete, "/api/v1/consultations/"+id, nil, nil)
}

// FetchAvailability fetches all authoritative availability records.
func (c *Client) FetchAvailability(ctx context.Context) ([]models.AvailabilityRecord, error) {
	var out []models.AvailabilityRecord
	if err := c.do(ctx, "availability", http.MethodGet, "/api/v1/availability", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &NetworkError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("x-api-key", c.cfg.APIKey)
		req.Header.Set("x-api-extra", c.cfg.Extra)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("op", op).Msg("remote call failed")
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error().Int("status", resp.StatusCode).Str("op", op).Msg("remote call rejected")
		return &NetworkError{Op: op, Status: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
