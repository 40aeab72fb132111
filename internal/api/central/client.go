package central

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fluxcd/pkg/masktoken"

	"github.com/oshokin/central-publisher/internal/logger"
	"github.com/oshokin/central-publisher/internal/version"
)

// maxResponseBody bounds how much of a response body is kept for parsing and errors.
const maxResponseBody = 1 << 20

// Client talks to the publisher API.
type Client struct {
	// endpoints builds the request URLs.
	endpoints Endpoints
	// credentials authenticate every request.
	credentials Credentials
	// httpClient performs the requests. It has no timeout of its own.
	httpClient *http.Client
	// userAgent is sent with every request.
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client, e.g. with one from httptest.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// NewClient creates a Client. Credentials are checked eagerly.
func NewClient(endpoints Endpoints, credentials Credentials, opts ...Option) (*Client, error) {
	if err := credentials.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		endpoints:   endpoints,
		credentials: credentials,
		httpClient:  &http.Client{Transport: NewTransport(nil)},
		userAgent:   version.UserAgent(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Endpoints returns the endpoints the client calls.
func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// response is a fully read, bounded HTTP response.
type response struct {
	statusCode int
	body       string
}

func (r *response) ok() bool {
	return r.statusCode >= http.StatusOK && r.statusCode < http.StatusMultipleChoices
}

// do sends one authenticated request. Transport failures are returned with secrets masked.
func (c *Client) do(ctx context.Context, method, url string, body io.Reader, contentType string) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, c.mask(err)
	}

	req.Header.Set("Authorization", c.credentials.Authorization())
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, text/plain")

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.mask(err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, c.mask(fmt.Errorf("read response: %w", err))
	}

	logger.DebugKV(ctx, "Publisher API call", "method", method, "url", url, "status", resp.StatusCode)

	return &response{
		statusCode: resp.StatusCode,
		body:       c.redact(string(data)),
	}, nil
}

// redact replaces every credential occurrence in s.
func (c *Client) redact(s string) string {
	for _, secret := range c.credentials.secrets() {
		masked, err := masktoken.MaskTokenFromString(s, secret)
		if err != nil {
			return "<redacted>"
		}

		s = masked
	}

	return s
}

// mask returns err unchanged unless its text contains a credential.
func (c *Client) mask(err error) error {
	text := err.Error()
	if masked := c.redact(text); masked != text {
		return &maskedError{text: masked}
	}

	return err
}

// maskedError replaces an error whose text leaked a credential.
type maskedError struct {
	text string
}

func (e *maskedError) Error() string {
	return e.text
}

// serverMessage extracts a human readable reason from an error response body.
func serverMessage(body string) string {
	message := strings.TrimSpace(body)
	if message == "" {
		return "empty response"
	}

	if parsed := decodeMessage(message); parsed != "" {
		return parsed
	}

	return message
}
