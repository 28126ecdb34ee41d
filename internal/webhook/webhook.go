package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const externalHTTPTimeout = 30 * time.Second

// Client posts JSON payloads to webhook destinations. When a relay URL
// is configured the payload is wrapped as {url, body} and sent to the
// relay, which forwards it server-side; otherwise the destination is
// posted to directly. Every call is attempted exactly once.
type Client struct {
	http     *http.Client
	relayURL string
	logger   zerolog.Logger
}

// NewClient creates a webhook client. relayURL may be empty.
func NewClient(relayURL string, logger zerolog.Logger) *Client {
	return &Client{
		http:     &http.Client{Timeout: externalHTTPTimeout},
		relayURL: relayURL,
		logger:   logger,
	}
}

// relayEnvelope is the body shape the relay expects
type relayEnvelope struct {
	URL  string      `json:"url"`
	Body interface{} `json:"body"`
}

// Post delivers body to the destination webhook URL
func (c *Client) Post(ctx context.Context, url string, body interface{}) error {
	target := url
	var payload interface{} = body
	if c.relayURL != "" {
		target = c.relayURL
		payload = relayEnvelope{URL: url, Body: body}
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, snippet)
	}

	c.logger.Debug().Str("url", url).Int("status", resp.StatusCode).Msg("Webhook delivered")
	return nil
}
