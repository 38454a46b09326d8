package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"litfund-backend/models"

	"github.com/google/uuid"
)

// CRMService forwards captured leads to the CRM's inbound webhook.
// Delivery is best-effort: callers log failures and move on, the submission
// row in the database is the source of truth.
type CRMService struct {
	WebhookURL string
	Client     *http.Client
}

func NewCRMService(webhookURL string) *CRMService {
	return &CRMService{
		WebhookURL: webhookURL,
		Client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether a webhook URL is configured.
func (s *CRMService) Enabled() bool {
	return s != nil && s.WebhookURL != ""
}

func (s *CRMService) ForwardSubmission(ctx context.Context, sub *models.FormSubmission) error {
	if !s.Enabled() {
		return nil
	}

	payload := map[string]any{
		"submission_id": sub.ID,
		"form_type":     sub.FormType,
		"data":          json.RawMessage(sub.Data),
		"submitted_at":  sub.CreatedAt,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("cannot encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.WebhookURL, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("cannot build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Delivery-Id", uuid.NewString())

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook HTTP error %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
