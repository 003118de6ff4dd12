// Package notify builds and delivers the transactional emails sent
// around booking and tournament state changes.  Delivery goes through
// the Brevo HTTP API, which is the provider the court operator uses;
// no SMTP connection is ever opened from this service.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

const brevoAPIURL = "https://api.brevo.com/v3/smtp/email"

// BrevoMailer sends transactional email through the Brevo REST API.
// When no API key is configured the mailer logs the message instead of
// sending it, which keeps development environments working without
// credentials.
type BrevoMailer struct {
	apiKey    string
	fromName  string
	fromEmail string
	client    *http.Client
}

// NewBrevoMailer constructs a mailer with the given credentials.  The
// sender name is fixed to the court brand used in all templates.
func NewBrevoMailer(apiKey, fromEmail string) *BrevoMailer {
	return &BrevoMailer{
		apiKey:    apiKey,
		fromName:  "Cricket Court",
		fromEmail: fromEmail,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type brevoParty struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoRequest struct {
	Sender      brevoParty   `json:"sender"`
	To          []brevoParty `json:"to"`
	Subject     string       `json:"subject"`
	HTMLContent string       `json:"htmlContent,omitempty"`
	TextContent string       `json:"textContent"`
}

// Send delivers one email.  A non-2xx API response is returned as an
// error; callers in the queue consumer treat any failure as
// log-and-drop because email is best-effort by contract.
func (m *BrevoMailer) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	if m.apiKey == "" {
		log.Printf("mailer: BREVO_API_KEY not set, dropping email to=%s subject=%q", to, subject)
		return nil
	}
	if textBody == "" {
		textBody = subject
	}
	payload := brevoRequest{
		Sender:      brevoParty{Name: m.fromName, Email: m.fromEmail},
		To:          []brevoParty{{Email: to}},
		Subject:     subject,
		HTMLContent: htmlBody,
		TextContent: textBody,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoAPIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", m.apiKey)
	req.Header.Set("content-type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("post to brevo: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("brevo returned status %d", resp.StatusCode)
	}
	return nil
}
