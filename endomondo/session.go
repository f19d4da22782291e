package endomondo

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

const (
	sessionPath = "rest/session"
	csrfCookie  = "CSRF_TOKEN"
	csrfHeader  = "X-CSRF-TOKEN"
)

// Session holds the process-scoped authentication state: the user
// identifier returned by login and the CSRF token required by
// state-changing requests. The session cookie itself lives in the HTTP
// client's cookie jar.
//
// A Session belongs to exactly one authenticated identity. It is not safe
// to mutate from two in-flight requests; callers needing concurrency
// should use one Client per logical session.
type Session struct {
	userID    string
	csrfToken string
}

// UserID returns the authenticated user's identifier.
func (s *Session) UserID() string {
	return s.userID
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

// Login authenticates with the given credentials and establishes the
// client's session. On success it returns the user's profile, with the
// raw response retained on Profile.Raw.
//
// Invalid credentials and rate-limit responses during login both surface
// as *AuthError.
func (c *Client) Login(ctx context.Context, email, password string) (*Profile, error) {
	raw, err := c.send(ctx, http.MethodPost, sessionPath, nil, loginRequest{
		Email:    email,
		Password: password,
		Remember: true,
	}, false)
	if err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) {
			return nil, err
		}
		var rlErr *RateLimitError
		if errors.As(err, &rlErr) {
			return nil, &AuthError{
				StatusCode: http.StatusTooManyRequests,
				Message:    "login rejected: too many requests",
				Err:        err,
			}
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
			return nil, &AuthError{
				StatusCode: apiErr.StatusCode,
				Message:    "invalid credentials",
				Err:        err,
			}
		}
		return nil, err
	}

	profile, err := parseProfile(raw)
	if err != nil {
		return nil, err
	}

	c.session = &Session{userID: profile.ID}
	return profile, nil
}

// Logout invalidates the local session state. The next user-scoped call
// fails with *AuthError until Login succeeds again.
func (c *Client) Logout() {
	c.session = nil
}

// ensureCSRFToken lazily acquires the anti-forgery token required by
// state-changing requests. The server hands the token out as a cookie on
// the session endpoint; acquisition failures surface as *AuthError.
func (c *Client) ensureCSRFToken(ctx context.Context) (string, error) {
	s := c.session
	if s == nil {
		return "", &AuthError{Message: "login required"}
	}
	if s.csrfToken != "" {
		return s.csrfToken, nil
	}

	if _, err := c.send(ctx, http.MethodGet, sessionPath, nil, nil, false); err != nil {
		return "", &AuthError{Message: "csrf token acquisition failed", Err: err}
	}

	token := c.cookieValue(csrfCookie)
	if token == "" {
		return "", &AuthError{Message: "csrf token missing from session response"}
	}

	s.csrfToken = token
	return token, nil
}

// RefreshCSRFToken discards the cached anti-forgery token and acquires a
// fresh one. Call it when the server signals token expiry on a
// state-changing request.
func (c *Client) RefreshCSRFToken(ctx context.Context) error {
	if c.session == nil {
		return &AuthError{Message: "login required"}
	}
	c.session.csrfToken = ""
	_, err := c.ensureCSRFToken(ctx)
	return err
}

// cookieValue reads a cookie for the API base URL out of the jar.
func (c *Client) cookieValue(name string) string {
	if c.httpClient.Jar == nil {
		return ""
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	for _, ck := range c.httpClient.Jar.Cookies(u) {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}
