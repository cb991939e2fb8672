// Package notify talks to the two back-office collaborators: the email
// relay and the spreadsheet logger. Both are opaque sinks; the email
// outcome gates a status flag, the spreadsheet call is best-effort.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// Message is the JSON document the email relay accepts.
type Message struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
	HTML    string   `json:"html"`
}

// EmailClient posts order confirmations to the relay endpoint.
type EmailClient struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewEmailClient builds a client for the given relay URL. An empty URL
// yields a disabled client whose Send is a no-op.
func NewEmailClient(url string, client *http.Client, logger *zap.Logger) *EmailClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &EmailClient{url: url, client: client, logger: logger}
}

// Enabled reports whether a relay URL is configured.
func (c *EmailClient) Enabled() bool {
	return c.url != ""
}

// Send posts the message. Any transport failure or non-2xx response is an
// error; the body is not inspected beyond a short diagnostic read.
func (c *EmailClient) Send(ctx context.Context, msg Message) error {
	if !c.Enabled() {
		return nil
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		c.logger.Warn("email relay rejected message",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("detail", detail))
		return fmt.Errorf("email relay returned status %d", resp.StatusCode)
	}
	return nil
}
