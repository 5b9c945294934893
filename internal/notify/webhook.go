package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/Tiliavir/focus-streak-tracker/internal/model"
)

// WebhookConfig configures delivery of notifications to an HTTP endpoint.
// When TokenURL is set, requests are authorized with the OAuth2 client
// credentials grant.
type WebhookConfig struct {
	URL          string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
	Attempts     uint
	Timeout      time.Duration
}

// WebhookSink posts notifications as JSON.
type WebhookSink struct {
	url      string
	client   *http.Client
	attempts uint
	log      *zap.SugaredLogger
}

// NewWebhookSink creates a WebhookSink. ctx scopes the token source.
func NewWebhookSink(ctx context.Context, cfg WebhookConfig, log *zap.SugaredLogger) *WebhookSink {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	attempts := cfg.Attempts
	if attempts == 0 {
		attempts = 3
	}

	client := &http.Client{Timeout: timeout}
	if cfg.TokenURL != "" {
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		}
		client = cc.Client(ctx)
		client.Timeout = timeout
	}

	return &WebhookSink{url: cfg.URL, client: client, attempts: attempts, log: log}
}

// Send posts n, retrying transport failures and 5xx responses with backoff.
// 4xx responses are not retried.
func (s *WebhookSink) Send(ctx context.Context, n model.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshalling notification: %w", err)
	}

	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("creating request: %w", err))
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := s.client.Do(req)
			if err != nil {
				return fmt.Errorf("webhook request failed: %w", err)
			}
			respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			_ = resp.Body.Close()

			switch {
			case resp.StatusCode >= 500:
				return fmt.Errorf("webhook server error %d: %s", resp.StatusCode, respBody)
			case resp.StatusCode >= 400:
				return retry.Unrecoverable(fmt.Errorf("webhook rejected notification %d: %s", resp.StatusCode, respBody))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(500*time.Millisecond),
		retry.MaxDelay(30*time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			s.log.Warnw("retrying webhook delivery", "attempt", n+1, "error", err)
		}),
	)
}
