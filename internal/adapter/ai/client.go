// Package ai implements the foundation evaluation oracle on top of an
// OpenAI-compatible chat completions API.
package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/foerderkompass/foerderkompass/internal/adapter/observability"
	"github.com/foerderkompass/foerderkompass/internal/config"
	"github.com/foerderkompass/foerderkompass/internal/domain"
)

// Client calls an OpenAI-compatible chat completions endpoint. The provider
// and model come from configuration so any OpenRouter-style gateway works.
type Client struct {
	cfg config.Config
	hc  *http.Client
}

// NewClient constructs a Client whose HTTP timeout covers one full oracle
// call including provider-side queueing. Outbound requests carry a client
// span and trace propagation headers.
func NewClient(cfg config.Config) *Client {
	timeout := cfg.OracleTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	transport := otelhttp.NewTransport(http.DefaultTransport,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return fmt.Sprintf("Oracle %s %s", r.Method, r.URL.Host)
		}),
	)
	return &Client{cfg: cfg, hc: &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}}
}

func (c *Client) backoffConfig() *backoff.ExponentialBackOff {
	expo := backoff.NewExponentialBackOff()
	maxElapsedTime, initialInterval, maxInterval, multiplier := c.cfg.OracleBackoff()
	expo.MaxElapsedTime = maxElapsedTime
	expo.InitialInterval = initialInterval
	expo.MaxInterval = maxInterval
	expo.Multiplier = multiplier
	return expo
}

// ChatJSON sends one system+user prompt pair and returns the assistant
// message content. 429 and 5xx responses are retried with exponential
// backoff; other 4xx responses fail immediately.
func (c *Client) ChatJSON(ctx domain.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	if c.cfg.OracleAPIKey == "" {
		slog.Error("oracle API key missing", slog.String("provider", "oracle"))
		return "", fmt.Errorf("%w: ORACLE_API_KEY missing", domain.ErrInvalidArgument)
	}

	body := map[string]any{
		"model":       c.cfg.OracleModel,
		"temperature": c.cfg.OracleTemperature,
		"max_tokens":  maxTokens,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
	}
	b, _ := json.Marshal(body)
	endpoint := c.cfg.OracleBaseURL + "/chat/completions"

	var out struct {
		Model   string `json:"model"`
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	op := func() error {
		start := time.Now()
		// Recreate request each attempt to avoid reusing consumed bodies
		r, _ := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
		r.Header.Set("Authorization", "Bearer "+c.cfg.OracleAPIKey)
		r.Header.Set("Content-Type", "application/json")
		resp, err := c.hc.Do(r)
		if err != nil {
			observability.ObserveOracleCall("transport_error", time.Since(start))
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			observability.ObserveOracleCall("read_error", time.Since(start))
			slog.Error("oracle response read failed", slog.Any("error", err))
			return err
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			observability.ObserveOracleCall("rate_limited", time.Since(start))
			slog.Warn("oracle rate limited",
				slog.Int("status", resp.StatusCode),
				slog.String("x_request_id", resp.Header.Get("X-Request-Id")))
			return fmt.Errorf("rate limited: 429")
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			observability.ObserveOracleCall("client_error", time.Since(start))
			slog.Warn("oracle 4xx",
				slog.Int("status", resp.StatusCode),
				slog.String("model", c.cfg.OracleModel),
				slog.String("endpoint", endpoint),
				slog.String("x_request_id", resp.Header.Get("X-Request-Id")),
				slog.String("body", snippet(bodyBytes, 512)))
			return backoff.Permanent(fmt.Errorf("chat status %d", resp.StatusCode))
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			observability.ObserveOracleCall("server_error", time.Since(start))
			slog.Error("oracle non-2xx",
				slog.Int("status", resp.StatusCode),
				slog.String("model", c.cfg.OracleModel),
				slog.String("endpoint", endpoint),
				slog.String("x_request_id", resp.Header.Get("X-Request-Id")),
				slog.String("body", snippet(bodyBytes, 512)))
			return fmt.Errorf("chat status %d", resp.StatusCode)
		}
		if err := json.Unmarshal(bodyBytes, &out); err != nil {
			observability.ObserveOracleCall("decode_error", time.Since(start))
			slog.Error("oracle decode error",
				slog.String("model", c.cfg.OracleModel),
				slog.Any("error", err))
			return err
		}
		observability.ObserveOracleCall("ok", time.Since(start))
		return nil
	}

	expo := c.backoffConfig()
	bo := backoff.WithContext(expo, ctx)
	if err := backoff.Retry(op, bo); err != nil {
		slog.Error("oracle failed after retries", slog.Any("error", err))
		return "", fmt.Errorf("%w: %v", domain.ErrOracleFailure, err)
	}

	if len(out.Choices) == 0 {
		slog.Error("oracle returned empty choices", slog.String("model", c.cfg.OracleModel))
		return "", fmt.Errorf("%w: empty choices", domain.ErrOracleFailure)
	}
	if out.Model != "" && out.Model != c.cfg.OracleModel {
		slog.Warn("model substitution detected",
			slog.String("requested_model", c.cfg.OracleModel),
			slog.String("actual_model", out.Model))
	}
	return out.Choices[0].Message.Content, nil
}

func snippet(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
