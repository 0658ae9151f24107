package events

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// WebhookPublisher POSTs each envelope as JSON to a fixed URL.
type WebhookPublisher struct {
	client *resty.Client
	url    string
}

// NewWebhookPublisher creates a webhook publisher with a request timeout and two retries
func NewWebhookPublisher(url string, timeout time.Duration) *WebhookPublisher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetHeader("Content-Type", "application/json")
	return &WebhookPublisher{client: client, url: url}
}

// Publish delivers the envelope; any non-2xx response is an error.
func (p *WebhookPublisher) Publish(ctx context.Context, env Envelope) error {
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("X-Event-Type", env.Type).
		SetHeader("X-Event-ID", env.ID.String()).
		SetBody(env).
		Post(p.url)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
