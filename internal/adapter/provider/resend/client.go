// Package resend sends transactional email through a Resend-compatible HTTP API.
package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sony/gobreaker"

	"github.com/heartmarshall/carehome-backend/internal/config"
	"github.com/heartmarshall/carehome-backend/internal/provider"
)

const (
	defaultBaseURL = "https://api.resend.com"
	maxErrorBody   = 512
)

// StatusError is returned when the provider answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("resend: status %d", e.StatusCode)
	}
	return fmt.Sprintf("resend: status %d: %s", e.StatusCode, e.Message)
}

// Client posts messages to the provider. Calls go through a circuit breaker;
// while it is open Send fails fast with gobreaker.ErrOpenState.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
	log        *slog.Logger
}

// NewClient creates a Client from email configuration.
func NewClient(cfg config.EmailConfig, logger *slog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return newClient(baseURL, cfg.APIKey, cfg.Timeout, cfg.BreakerTimeout, logger)
}

// NewClientWithURL creates a Client with a custom base URL (for testing).
func NewClientWithURL(baseURL, apiKey string, logger *slog.Logger) *Client {
	return newClient(baseURL, apiKey, 10*time.Second, 30*time.Second, logger)
}

func newClient(baseURL, apiKey string, timeout, breakerTimeout time.Duration, logger *slog.Logger) *Client {
	log := logger.With("adapter", "resend")
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		cb:         newBreaker("resend", breakerTimeout, log),
		log:        log,
	}
}

// Send delivers one message. Any non-2xx response or transport error is
// returned as an error; the call is never retried.
func (c *Client) Send(ctx context.Context, msg provider.EmailMessage) (provider.SendResult, error) {
	res, err := executeWithBreaker(c.cb, func() (provider.SendResult, error) {
		return c.send(ctx, msg)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		c.log.WarnContext(ctx, "resend short-circuited", slog.String("to", msg.To))
		return provider.SendResult{}, fmt.Errorf("resend: provider unavailable: %w", err)
	}
	return res, err
}

func (c *Client) send(ctx context.Context, msg provider.EmailMessage) (provider.SendResult, error) {
	body, err := json.Marshal(apiRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Text,
		HTML:    msg.HTML,
	})
	if err != nil {
		return provider.SendResult{}, fmt.Errorf("resend: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return provider.SendResult{}, fmt.Errorf("resend: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	c.log.DebugContext(ctx, "resend request", slog.String("to", msg.To))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return provider.SendResult{}, fmt.Errorf("resend: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return provider.SendResult{}, fmt.Errorf("resend: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return provider.SendResult{}, &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}

	var out apiResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return provider.SendResult{}, fmt.Errorf("resend: decode json: %w", err)
		}
	}

	c.log.DebugContext(ctx, "resend response",
		slog.String("to", msg.To),
		slog.Int("status", resp.StatusCode),
		slog.String("message_id", out.ID),
	)
	return provider.SendResult{MessageID: out.ID}, nil
}

// errorMessage extracts a readable message from an error body. The result is
// valid UTF-8 of at most maxErrorBody bytes since it ends up in a TEXT column.
func errorMessage(raw []byte) string {
	var apiErr apiError
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Message != "" {
		return truncate(apiErr.Message, maxErrorBody)
	}
	return truncate(strings.ToValidUTF8(strings.TrimSpace(string(raw)), "\uFFFD"), maxErrorBody)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
