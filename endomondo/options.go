package endomondo

import (
	"net/http"
)

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client used for requests.
// The client must carry a cookie jar: the API session and CSRF tokens
// travel as cookies. NewClient's default client has one.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithBaseURL overrides the default Endomondo API base URL.
// This is primarily useful for testing or connecting to a proxy.
func WithBaseURL(url string) Option {
	return func(client *Client) {
		client.baseURL = url
	}
}

// WithUserAgent overrides the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(client *Client) {
		client.userAgent = ua
	}
}

// WithSchema selects the API schema variant used when mapping workout
// payloads and seeding history defaults. The default is SchemaModern.
func WithSchema(s Schema) Option {
	return func(client *Client) {
		client.schema = s
	}
}

// WithRateLimiting enables or disables the optional local throttle.
// It is disabled by default: the client reacts to server-signaled
// throttling by surfacing *RateLimitError and leaves pacing to the
// caller.
func WithRateLimiting(enabled bool) Option {
	return func(client *Client) {
		client.rateLimiter.SetLimiting(enabled)
	}
}
