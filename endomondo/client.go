package endomondo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://www.endomondo.com"
	userAgent      = "endomondo-go/1.0"
)

// Client is the core Endomondo API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	schema     Schema

	session     *Session
	rateLimiter *rateLimiter

	// Services used for communicating with the Endomondo API endpoints.
	User    *UserService
	Workout *WorkoutService
}

// NewClient creates a new Endomondo API client with the given options.
// The default HTTP client carries a cookie jar; the API session and CSRF
// tokens travel as cookies.
func NewClient(opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second, Jar: jar},
		baseURL:     defaultBaseURL,
		userAgent:   userAgent,
		schema:      SchemaModern,
		rateLimiter: newRateLimiter(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.User = &UserService{client: c}
	c.Workout = &WorkoutService{client: c}

	return c
}

// Session returns the current authenticated session, or nil before Login.
func (c *Client) Session() *Session {
	return c.session
}

// send resolves an endpoint path against the base URL and dispatches the
// request. withCSRF attaches the session's anti-forgery token, acquiring
// it first when needed.
func (c *Client) send(ctx context.Context, method, path string, q url.Values, body any, withCSRF bool) (json.RawMessage, error) {
	u := c.baseURL + "/" + strings.TrimPrefix(path, "/")
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return c.sendURL(ctx, method, u, body, withCSRF)
}

// sendURL executes one HTTP request against a fully-qualified URL and
// classifies the outcome:
//
//   - 429 becomes *RateLimitError; the client never retries internally,
//     the backoff policy stays with the caller.
//   - 401/403 become *AuthError, any other >=400 becomes *APIError.
//   - 2xx bodies are decoded as JSON; a non-JSON body is a *ProtocolError.
//
// The decoded JSON is returned unvalidated; schema checks belong to the
// mapper.
func (c *Client) sendURL(ctx context.Context, method, rawURL string, body any, withCSRF bool) (json.RawMessage, error) {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, payload)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if withCSRF {
		token, err := c.ensureCSRFToken(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set(csrfHeader, token)
	}

	// Enforce the optional local throttle before executing the request.
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("local rate limit wait interrupted: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request aborted by context: %w", ctx.Err())
		}
		return nil, fmt.Errorf("http execute request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, mapHTTPError(resp, respBody)
	}

	// Some state-changing endpoints answer with an empty body.
	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil, nil
	}

	if !json.Valid(respBody) {
		return nil, &ProtocolError{URL: rawURL, Err: fmt.Errorf("response body is not valid JSON")}
	}

	return json.RawMessage(respBody), nil
}

// userPath resolves an endpoint inside the authenticated user's resource
// namespace, rest/v1/users/{userId}/...
func (c *Client) userPath(endpoint string) (string, error) {
	s := c.session
	if s == nil {
		return "", &AuthError{Message: "login required"}
	}
	p := "rest/v1/users/" + s.UserID()
	if endpoint != "" {
		p += "/" + endpoint
	}
	return p, nil
}

func (c *Client) get(ctx context.Context, endpoint string, q url.Values) (json.RawMessage, error) {
	p, err := c.userPath(endpoint)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, http.MethodGet, p, q, nil, false)
}

func (c *Client) post(ctx context.Context, endpoint string, body any) (json.RawMessage, error) {
	p, err := c.userPath(endpoint)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, http.MethodPost, p, nil, body, true)
}

func (c *Client) put(ctx context.Context, endpoint string, body any) (json.RawMessage, error) {
	p, err := c.userPath(endpoint)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, http.MethodPut, p, nil, body, true)
}

func (c *Client) delete(ctx context.Context, endpoint string) (json.RawMessage, error) {
	p, err := c.userPath(endpoint)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, http.MethodDelete, p, nil, nil, true)
}
