// Package remote implements the source interfaces over the HTTP API of the
// remote health-data service. It translates HTTP status codes into the tagged
// failure kinds the retry classifier understands, so transport details never
// leak past the source package boundary.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/healthsync/healthsync/internal/metrics"
	"github.com/healthsync/healthsync/internal/source"
)

const (
	// defaultTimeout bounds a single remote request when no timeout is
	// configured.
	defaultTimeout = 30 * time.Second

	// maxResponseSize caps a single payload read at 10MB. Daily metric
	// payloads are a few KB; anything near this limit is a broken remote.
	maxResponseSize = 10 * 1024 * 1024

	userAgent = "healthsync/1.0"
)

// Client talks to the remote health-data service over HTTP. It serves both as
// the authenticator and the metric fetcher for the sync engine.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var (
	_ source.Authenticator = (*Client)(nil)
	_ source.Client        = (*Client)(nil)
)

// Option configures the client
type Option func(*Client)

// WithTimeout sets the per-request timeout. Zero keeps the default.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client, primarily for tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// New creates a client for the service at endpoint (the base URL, without a
// trailing slash).
func New(endpoint string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("endpoint %q must use http or https", endpoint)
	}

	c := &Client{
		baseURL: strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// tokenResponse is the wire form of a successful token exchange.
type tokenResponse struct {
	Token     string `json:"token"`
	UserRef   string `json:"user_ref"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// Authenticate exchanges a stored credential reference for a bearer session
// via POST /api/v1/auth/token.
func (c *Client) Authenticate(ctx context.Context, credentialRef string) (*source.Session, error) {
	const op = "authenticate"

	if credentialRef == "" {
		return nil, &source.Error{
			Kind: source.KindAuth,
			Op:   op,
			Err:  fmt.Errorf("credential reference is empty"),
		}
	}

	reqBody, err := json.Marshal(map[string]string{"credential_ref": credentialRef})
	if err != nil {
		return nil, fmt.Errorf("failed to encode token request: %w", err)
	}

	reqURL := c.baseURL + "/api/v1/auth/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	body, reqErr := c.do(ctx, op, req)
	if reqErr != nil {
		return nil, reqErr
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if tok.Token == "" {
		return nil, &source.Error{
			Kind: source.KindAuth,
			Op:   op,
			Err:  fmt.Errorf("token response contained no token"),
		}
	}

	sess := &source.Session{
		Token:   tok.Token,
		UserRef: tok.UserRef,
	}
	if tok.ExpiresAt != "" {
		expires, err := time.Parse(time.RFC3339, tok.ExpiresAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse session expiry %q: %w", tok.ExpiresAt, err)
		}
		sess.ExpiresAt = expires
	}
	return sess, nil
}

// Fetch retrieves one metric payload for one date via
// GET /api/v1/users/{userRef}/metrics/{metric}/{date}. A 404 or 204 from the
// remote means no data exists for that unit and maps to ErrNotFound.
func (c *Client) Fetch(
	ctx context.Context,
	sess *source.Session,
	metric metrics.Type,
	day metrics.Date,
) (json.RawMessage, error) {
	const op = "fetch"

	if sess == nil || sess.Token == "" {
		return nil, &source.Error{
			Kind: source.KindAuth,
			Op:   op,
			Err:  fmt.Errorf("no session"),
		}
	}

	reqURL := fmt.Sprintf("%s/api/v1/users/%s/metrics/%s/%s",
		c.baseURL, url.PathEscape(sess.UserRef), metric.String(), day.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+sess.Token)

	body, reqErr := c.do(ctx, op, req)
	if reqErr != nil {
		return nil, reqErr
	}
	if len(body) == 0 {
		return nil, source.ErrNotFound
	}
	return json.RawMessage(body), nil
}

// do executes the request and returns the response body on 2xx. All failures
// come back classified: transport problems and remote statuses are wrapped in
// *source.Error, except caller cancellation which surfaces as the context
// error itself.
func (c *Client) do(ctx context.Context, op string, req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		// Client-side timeouts and connection failures are all worth
		// retrying.
		return nil, &source.Error{
			Kind: source.KindTimeout,
			Op:   op,
			Err:  fmt.Errorf("failed to execute request: %w", err),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent {
		return nil, source.ErrNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.statusError(op, req.URL.String(), resp)
	}

	if resp.ContentLength > maxResponseSize {
		return nil, fmt.Errorf("response size %d bytes exceeds maximum allowed size %.2f MB",
			resp.ContentLength, float64(maxResponseSize)/(1024*1024))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &source.Error{
			Kind: source.KindTimeout,
			Op:   op,
			Err:  fmt.Errorf("failed to read response body: %w", err),
		}
	}
	if len(body) > maxResponseSize {
		return nil, fmt.Errorf("response exceeds maximum allowed size %.2f MB",
			float64(maxResponseSize)/(1024*1024))
	}
	return body, nil
}

// statusError maps a non-2xx response onto a tagged source error.
func (c *Client) statusError(op, reqURL string, resp *http.Response) *source.Error {
	// Grab a short excerpt of the body for the error message. Remote error
	// bodies are not part of the contract, so best effort only.
	excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	httpErr := NewHTTPError(resp.StatusCode, reqURL, strings.TrimSpace(string(excerpt)))

	srcErr := &source.Error{
		Op:  op,
		Err: httpErr,
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		srcErr.Kind = source.KindAuth
	case resp.StatusCode == http.StatusTooManyRequests:
		srcErr.Kind = source.KindRateLimited
		srcErr.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
	case resp.StatusCode >= 500:
		srcErr.Kind = source.KindServerError
	default:
		srcErr.Kind = source.KindBadRequest
	}
	return srcErr
}

// parseRetryAfter handles both forms of the Retry-After header: a delay in
// seconds or an HTTP date. Unparseable values yield zero.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
