// Package notify delivers operational digests to a configured webhook, for
// example a chat channel the branch managers watch.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client posts digest messages to a webhook endpoint.
type Client interface {
	SendDigest(ctx context.Context, message string) error
}

// WebhookClient is a resty-backed implementation of Client.
type WebhookClient struct {
	httpClient *resty.Client
	webhookURL string
}

// NewWebhookClient builds a webhook notifier for the given URL.
func NewWebhookClient(webhookURL string) *WebhookClient {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &WebhookClient{
		httpClient: restyClient,
		webhookURL: webhookURL,
	}
}

// SendDigest posts the message as a simple text payload.
func (c *WebhookClient) SendDigest(ctx context.Context, message string) error {
	payload := map[string]any{"text": message}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		Post(c.webhookURL)
	if err != nil {
		return fmt.Errorf("send digest: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("digest webhook error: status=%d, body=%s", resp.StatusCode(), resp.String())
	}
	return nil
}
