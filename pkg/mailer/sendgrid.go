// Package mailer sends transactional email through the SendGrid v3 REST API.
// Uses raw HTTP calls (no SDK).
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultEndpoint is the SendGrid v3 mail send URL.
const DefaultEndpoint = "https://api.sendgrid.com/v3/mail/send"

// ErrNotConfigured is returned when the API key or sender address is missing.
var ErrNotConfigured = errors.New("mailer: not configured")

// Message is one email with a plain-text and an HTML body.
type Message struct {
	ToEmail string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a Message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// APIError carries a non-2xx SendGrid response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sendgrid: status %d: %s", e.StatusCode, e.Body)
}

// SendGridClient is the raw HTTP implementation of Sender.
type SendGridClient struct {
	APIKey    string
	FromEmail string
	FromName  string
	// Endpoint overrides DefaultEndpoint; tests point it at httptest servers.
	Endpoint   string
	httpClient *http.Client
}

// NewSendGridClient creates a client for the SendGrid v3 mail send endpoint.
func NewSendGridClient(apiKey, fromEmail, fromName string) *SendGridClient {
	return &SendGridClient{
		APIKey:     apiKey,
		FromEmail:  fromEmail,
		FromName:   fromName,
		Endpoint:   DefaultEndpoint,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type personalization struct {
	To      []address `json:"to"`
	Subject string    `json:"subject"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Content          []content         `json:"content"`
}

func (c *SendGridClient) Send(ctx context.Context, msg Message) error {
	if c.APIKey == "" || c.FromEmail == "" {
		return ErrNotConfigured
	}
	if msg.ToEmail == "" {
		return errors.New("mailer: recipient is required")
	}

	body := sendRequest{
		Personalizations: []personalization{{
			To:      []address{{Email: msg.ToEmail, Name: msg.ToName}},
			Subject: msg.Subject,
		}},
		From: address{Email: c.FromEmail, Name: c.FromName},
	}
	// SendGrid requires text/plain before text/html.
	if msg.Text != "" {
		body.Content = append(body.Content, content{Type: "text/plain", Value: msg.Text})
	}
	if msg.HTML != "" {
		body.Content = append(body.Content, content{Type: "text/html", Value: msg.HTML})
	}
	if len(body.Content) == 0 {
		return errors.New("mailer: message has no body")
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}

	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	return nil
}
