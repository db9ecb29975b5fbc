// Package remote talks to the bookshelf store's REST API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is used when New is given an empty base URL.
const DefaultBaseURL = "http://127.0.0.1:8080/api"

const (
	defaultTimeout   = 10 * time.Second
	defaultSearchRPS = 2.0
	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 64 << 10
)

// Client is a store API client. It is safe for concurrent use.
type Client struct {
	base      string
	http      *http.Client
	userAgent string
	search    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithSearchRate limits catalog searches to rps requests per second.
// Zero or negative disables the limit.
func WithSearchRate(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.search = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.search = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a Client for the store at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		base:      strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: defaultTimeout},
		userAgent: "shelfboard",
		search:    rate.NewLimiter(rate.Limit(defaultSearchRPS), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized store URL.
func (c *Client) BaseURL() string { return c.base }

// url builds an API URL from path segments, escaping each one.
func (c *Client) url(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return c.base + "/" + strings.Join(escaped, "/")
}

// do executes the request with standard headers.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", reqID)
	if req.Header.Get("Content-Type") == "" && req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		slog.Debug("store request failed", "method", req.Method, "url", req.URL.String(), "request_id", reqID, "error", err)
		return nil, err
	}
	slog.Debug("store request", "method", req.Method, "url", req.URL.String(),
		"status", resp.StatusCode, "request_id", reqID, "elapsed", time.Since(start))
	return resp, nil
}

// doJSON sends body as JSON and decodes the response into out. A nil out
// discards the body. It reports whether a response body was decoded.
func (c *Client) doJSON(ctx context.Context, op, method, url string, body, out any) (bool, error) {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return false, &Error{Op: op, Err: fmt.Errorf("%w: encode request: %v", ErrBadRequest, err)}
		}
		bodyReader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return false, &Error{Op: op, Err: fmt.Errorf("%w: %w", ErrTransport, err)}
	}
	resp, err := c.do(req)
	if err != nil {
		return false, &Error{Op: op, Err: fmt.Errorf("%w: %w", ErrTransport, err)}
	}
	defer func() { _ = resp.Body.Close() }()
	if err := checkStatus(op, resp); err != nil {
		return false, err
	}
	if out == nil {
		return false, nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, &Error{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("%w: %w", ErrTransport, err)}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, &Error{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}
	return true, nil
}

// checkStatus returns a typed error for non-2xx responses.
func checkStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &Error{
		Op:      op,
		Status:  resp.StatusCode,
		Message: errorMessage(body),
		Err:     classify(resp.StatusCode),
	}
}

// errorMessage extracts {"error": ...} or {"message": ...} from a body.
func errorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}
