package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tnqbao/gau-video-service/config"
)

// MailerService posts transactional email to the HTTP relay. Only the email
// consumer worker calls it; request paths never block on mail delivery.
type MailerService struct {
	RelayURL   string
	RelayKey   string
	From       string
	HTTPClient *http.Client
}

func InitMailerService(cfg *config.EnvConfig) *MailerService {
	if cfg.Email.RelayURL == "" {
		panic("Email relay URL is not configured")
	}

	return &MailerService{
		RelayURL:   cfg.Email.RelayURL,
		RelayKey:   cfg.Email.RelayKey,
		From:       cfg.Email.From,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type relayPayload struct {
	From     string `json:"from"`
	To       string `json:"to"`
	ToName   string `json:"to_name,omitempty"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
}

func (m *MailerService) Send(ctx context.Context, recipient, recipientName, subject, htmlBody string) error {
	payload := relayPayload{
		From:     m.From,
		To:       recipient,
		ToName:   recipientName,
		Subject:  subject,
		HTMLBody: htmlBody,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.RelayURL, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to create relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Private-Key", m.RelayKey)

	resp, err := m.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach email relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("email relay returned %d: %s", resp.StatusCode, body)
	}
	return nil
}
