// Package agentapi is the HTTP client for the remote agent service: the
// prompt-completion endpoint and the health endpoint.
package agentapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/google/uuid"
)

const (
	PromptPath = "/mcp/prompt"
	HealthPath = "/health"

	DefaultTimeout = 60 * time.Second
	maxBodyExcerpt = 240
)

// PromptRequest is the body POSTed to the prompt endpoint.
type PromptRequest struct {
	Inputs struct {
		Text string `json:"text"`
	} `json:"inputs"`
}

type promptResponse struct {
	Outputs *struct {
		Text *string `json:"text"`
	} `json:"outputs"`
}

// Client talks to one agent backend.
type Client struct {
	BaseURL   string
	SessionID string
	HTTP      *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the transport. Tests use it with httptest servers.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTP = hc }
}

// WithTimeout sets the transport-level timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.HTTP = &http.Client{Timeout: d} }
}

func WithSessionID(id string) Option {
	return func(c *Client) { c.SessionID = id }
}

// New validates baseURL and returns a client for it.
func New(baseURL string, opts ...Option) (*Client, error) {
	normalized, err := NormalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		BaseURL: normalized,
		HTTP:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.HTTP == nil {
		c.HTTP = http.DefaultClient
	}
	return c, nil
}

// NormalizeBaseURL requires an absolute http(s) URL and trims trailing slashes.
func NormalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid base url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid base url %q: missing host", raw)
	}
	return strings.TrimRight(trimmed, "/"), nil
}

// Prompt sends text to the prompt endpoint and returns outputs.text.
// Non-2xx responses fail before the body is parsed.
func (c *Client) Prompt(ctx context.Context, text string) (string, error) {
	var body PromptRequest
	body.Inputs.Text = text
	buf, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode prompt: %w", err)
	}
	endpoint := c.BaseURL + PromptPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return "", fmt.Errorf("build prompt request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.applyHeaders(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: POST %s: %v", ErrTransport, PromptPath, err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read %s body: %v", ErrTransport, PromptPath, err)
	}
	if !success(resp.StatusCode) {
		return "", &StatusError{Endpoint: PromptPath, Code: resp.StatusCode, Body: excerpt(payload)}
	}
	var parsed promptResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", fmt.Errorf("%w: %s returned non-json payload: %v", ErrMalformed, PromptPath, err)
	}
	if parsed.Outputs == nil || parsed.Outputs.Text == nil {
		return "", fmt.Errorf("%w: %s response missing outputs.text", ErrMalformed, PromptPath)
	}
	return *parsed.Outputs.Text, nil
}

// Health issues GET /health. A nil error means the backend answered 2xx.
func (c *Client) Health(ctx context.Context) error {
	endpoint := c.BaseURL + HealthPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	c.applyHeaders(req)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %v", ErrTransport, HealthPath, err)
	}
	defer resp.Body.Close()
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if !success(resp.StatusCode) {
		return &StatusError{Endpoint: HealthPath, Code: resp.StatusCode, Body: excerpt(payload)}
	}
	return nil
}

func (c *Client) applyHeaders(req *http.Request) {
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.SessionID != "" {
		req.Header.Set("X-Session-ID", c.SessionID)
	}
}

func success(code int) bool {
	return code >= 200 && code < 300
}

func excerpt(payload []byte) string {
	line := strings.Join(strings.Fields(string(payload)), " ")
	return ansi.Truncate(line, maxBodyExcerpt, "...")
}
