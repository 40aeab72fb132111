//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/oshokin/central-publisher/internal/api/central"
	"github.com/oshokin/central-publisher/internal/config"
	domain "github.com/oshokin/central-publisher/internal/domain/deployment"
)

// Client wraps the publisher API client with per-call timeouts.
type Client struct {
	// api is the publisher API client.
	api *central.Client

	// callTimeout is the default timeout for individual API calls.
	callTimeout time.Duration
	// httpClient replaces the default HTTP client when set.
	httpClient *http.Client
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for API calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithHTTPClient replaces the HTTP client used for API calls.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// errConfigRequired is returned when no configuration is provided.
var errConfigRequired = errors.New("configuration must be provided")

// Dial validates the remote settings and builds a client for the configured publisher.
func Dial(_ context.Context, cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errConfigRequired
	}

	if err := config.ValidateRemote(cfg); err != nil {
		return nil, err
	}

	client := &Client{
		callTimeout: cfg.Timeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	endpoints, err := central.NewEndpoints(cfg.PublisherURL)
	if err != nil {
		return nil, fmt.Errorf("publisher endpoints: %w", err)
	}

	credentials := central.Credentials{
		Username: cfg.Credentials.Username,
		Password: cfg.Credentials.Password,
		Token:    cfg.Credentials.Token,
	}

	api, err := central.NewClient(endpoints, credentials, central.WithHTTPClient(client.httpClient))
	if err != nil {
		return nil, fmt.Errorf("publisher client: %w", err)
	}

	client.api = api

	return client, nil
}

// BaseURL returns the publisher API root the client talks to.
func (c *Client) BaseURL() string {
	return c.api.Endpoints().BaseURL()
}

// Upload sends the archive and returns the issued deployment identifier.
func (c *Client) Upload(
	ctx context.Context,
	archive io.Reader,
	fileName, name string,
	publishingType domain.PublishingType,
) (domain.ID, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	return c.api.Upload(callCtx, archive, fileName, name, publishingType)
}

// Status performs a single status query.
func (c *Client) Status(ctx context.Context, id domain.ID) (*central.Report, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	return c.api.Status(callCtx, id)
}

// Drop asks the server to delete the deployment.
func (c *Client) Drop(ctx context.Context, id domain.ID) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	return c.api.Drop(callCtx, id)
}

// Promote publishes a validated USER_MANAGED deployment.
func (c *Client) Promote(ctx context.Context, id domain.ID) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	return c.api.Promote(callCtx, id)
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
