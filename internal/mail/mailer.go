// Package mail sends transactional notifications through an HTTP mail API.
// Delivery is best-effort by design: callers treat failures as logged events,
// never as reasons to roll anything back.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"multitalent/internal/config"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

type Client struct {
	http      *http.Client
	endpoint  string
	apiKey    string
	fromEmail string
	fromName  string
	log       *zap.Logger
}

func New(cfg config.Mail, log *zap.Logger) *Client {
	return &Client{
		http:      &http.Client{Timeout: 30 * time.Second},
		endpoint:  cfg.Endpoint,
		apiKey:    cfg.APIKey,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		log:       log,
	}
}

type sendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
}

type personalization struct {
	To []address `json:"to"`
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Send posts the message to the configured endpoint. With no endpoint
// configured it logs the rendered mail and returns nil, so development
// environments work without a mail provider.
func (c *Client) Send(ctx context.Context, to, subject, html string) error {
	if c.endpoint == "" {
		c.log.Warn("mail endpoint not configured; dropping message",
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return nil
	}

	body, err := json.Marshal(sendRequest{
		Personalizations: []personalization{{To: []address{{Email: to}}}},
		From:             address{Email: c.fromEmail, Name: c.fromName},
		Subject:          subject,
		Content:          []content{{Type: "text/html", Value: html}},
	})
	if err != nil {
		return fmt.Errorf("marshal mail request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("send mail: status %d: %s", resp.StatusCode, detail)
	}
	return nil
}
