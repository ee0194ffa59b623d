package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/journai/journai-core/internal/core/domain"
)

// DefaultTimeout is the request timeout when none is configured.
const DefaultTimeout = 60 * time.Second

// Config holds configuration for a Client.
type Config struct {
	// Service names the remote side in error messages, e.g. "openai".
	Service string

	// BaseURL is the API base URL. A trailing slash is trimmed.
	BaseURL string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// Headers are sent with every request.
	Headers map[string]string

	// Limiter is waited on before every request. Nil disables limiting.
	Limiter *RateLimiter

	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client is a JSON-over-HTTP client for one remote service.
type Client struct {
	http    *http.Client
	service string
	baseURL string
	headers map[string]string
	limiter *RateLimiter
}

// NewClient creates a new Client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Service == "" {
		cfg.Service = "remote"
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	return &Client{
		http:    client,
		service: cfg.Service,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		headers: headers,
		limiter: cfg.Limiter,
	}
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PostJSON sends body as JSON to path and decodes the response into out.
// out may be nil.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(jsonBody), out)
}

// Get sends a GET to path and decodes the response into out. out may be nil.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, http.NoBody, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s: wait for rate limiter: %w", c.service, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", c.service, err)
	}
	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportError(ctx, "send request", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.transportError(ctx, "read response", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests && c.limiter != nil {
		c.limiter.RecordRateLimit(retryAfter(resp.Header.Get("Retry-After")))
	}
	if err := classifyStatus(c.service, resp.StatusCode, respBody); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.service, err)
	}
	return nil
}

// transportError wraps a failure below HTTP. A cancelled caller context is
// reported as such so it is not mistaken for a flaky network.
func (c *Client) transportError(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %s: %w", c.service, op, ctxErr)
	}
	return fmt.Errorf("%s: %s: %w: %v", c.service, op, domain.ErrTransport, err) //nolint:errorlint // classify as transport only
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
