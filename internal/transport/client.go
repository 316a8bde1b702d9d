// Package transport is the blocking HTTP collaborator the resolution
// core calls into. It owns request construction, the retry/sleep loop,
// response envelope unwrapping, and session acquisition. It knows
// nothing about labels or schemas.
package transport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api2.apptivo.com/app"

// Defaults for the retry loop. Retries is the number of attempts after
// the first; Sleep is waited between attempts.
const (
	DefaultRetries = 2
	DefaultSleep   = time.Second
)

// Credentials identify the firm and the acting user for every request.
type Credentials struct {
	// APIKey is the firm's API key.
	APIKey string

	// AccessKey is the firm's access key.
	AccessKey string

	// UserName is the optional email address of the employee actions
	// are performed on behalf of.
	UserName string
}

// Validate checks the credentials are usable.
func (c Credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.APIKey, validation.Required),
		validation.Field(&c.AccessKey, validation.Required),
	)
}

// Client issues blocking request-response calls against the platform
// API. It holds no resolution state; the config cache and record logic
// live above it.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      Credentials
	sessionKey string
	retries    int
	sleep      time.Duration
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient substitutes the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithRetries sets the number of additional attempts after a failed
// request.
func WithRetries(n int) Option {
	return func(c *Client) { c.retries = n }
}

// WithSleep sets the pause between attempts.
func WithSleep(d time.Duration) Option {
	return func(c *Client) { c.sleep = d }
}

// WithLogger attaches a logger; default is slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a Client with the given credentials.
func New(creds Credentials, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		creds:      creds,
		retries:    DefaultRetries,
		sleep:      DefaultSleep,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SessionKey returns the session key acquired by Login, or "".
func (c *Client) SessionKey() string { return c.sessionKey }

// keyParams returns the authentication query parameters appended to
// every keyed request.
func (c *Client) keyParams() url.Values {
	v := url.Values{}
	v.Set("apiKey", c.creds.APIKey)
	v.Set("accessKey", c.creds.AccessKey)
	if c.creds.UserName != "" {
		v.Set("userName", c.creds.UserName)
	}
	return v
}

// endpoint builds the URL for a path segment and query values.
func (c *Client) endpoint(path string, query url.Values) string {
	return c.baseURL + "/" + path + "?" + query.Encode()
}

// doWithRetry runs one request up to retries+1 times, sleeping between
// attempts, and returns the first successful body. A response counts as
// successful when accept returns nil; accept decides per call site what
// a usable body looks like.
func (c *Client) doWithRetry(ctx context.Context, method, rawURL string, form url.Values, accept func([]byte) error) ([]byte, error) {
	reqID := uuid.NewString()
	var lastErr error
	attempts := c.retries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 && c.sleep > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.sleep):
			}
		}
		body, err := c.doOnce(ctx, method, rawURL, form)
		if err == nil {
			err = accept(body)
			if err == nil {
				return body, nil
			}
		}
		lastErr = err
		c.log.Debug("api request attempt failed",
			"request_id", reqID, "method", method, "attempt", attempt, "error", err)
	}
	c.log.Warn("api request exhausted retries",
		"request_id", reqID, "method", method, "attempts", attempts, "error", lastErr)
	return nil, fmt.Errorf("api request failed after %d attempts: %w", attempts, lastErr)
}

func (c *Client) doOnce(ctx context.Context, method, rawURL string, form url.Values) ([]byte, error) {
	var reqBody io.Reader
	if form != nil {
		reqBody = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return nil, err
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return body, nil
}
