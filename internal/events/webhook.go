package events

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// WebhookConfig configures WebhookSink.
type WebhookConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Endpoint string        `yaml:"endpoint"`
	Secret   string        `yaml:"secret"`
	Timeout  time.Duration `yaml:"timeout"`
}

// WebhookSink posts events to an HTTP endpoint, signing the body with an
// HMAC when a secret is configured.
type WebhookSink struct {
	endpoint string
	secret   string
	http     *resty.Client
}

// NewWebhookSink creates a WebhookSink from config, or nil when disabled.
func NewWebhookSink(c WebhookConfig) *WebhookSink {
	if !c.Enabled || c.Endpoint == "" {
		return nil
	}
	timeout := c.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &WebhookSink{
		endpoint: c.Endpoint,
		secret:   c.Secret,
		http:     resty.New().SetTimeout(timeout),
	}
}

// Emit posts the event.
func (s *WebhookSink) Emit(ctx context.Context, e Event) error {
	if s == nil {
		return nil
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	req := s.http.R().SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(data)
	if s.secret != "" {
		h := hmac.New(sha256.New, []byte(s.secret))
		h.Write(data)
		req.SetHeader("X-Crud-Signature", "sha256="+hex.EncodeToString(h.Sum(nil)))
	}
	resp, err := req.Post(s.endpoint)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("webhook: %s", resp.Status())
	}
	return nil
}
