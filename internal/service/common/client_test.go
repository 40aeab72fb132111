//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/central-publisher/internal/config"
	domain "github.com/oshokin/central-publisher/internal/domain/deployment"
)

// TestDial_ValidatesConfig verifies that Dial rejects missing or incomplete settings.
func TestDial_ValidatesConfig(t *testing.T) {
	t.Parallel()

	c, err := Dial(context.Background(), nil)
	require.ErrorIs(t, err, errConfigRequired)
	require.Nil(t, c)

	c, err = Dial(context.Background(), config.Example())
	require.Error(t, err)
	require.Nil(t, c)

	var cfgErr *config.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

// TestClient_callContext checks timeout vs cancel-only behavior of callContext.
func TestClient_callContext(t *testing.T) {
	t.Parallel()

	c := &Client{
		callTimeout: 0,
	}

	ctx, cancel := c.callContext(context.Background())
	cancel()

	require.NotNil(t, ctx)

	c.callTimeout = 10 * time.Millisecond

	ctx, cancel = c.callContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 30*time.Millisecond)
}

// TestClient_Status exercises the wrapper against a fake publisher.
func TestClient_Status(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/status" {
			http.NotFound(w, r)

			return
		}

		_, _ = io.WriteString(w, `{"deploymentId":"abc","deploymentState":"VALIDATED"}`)
	}))
	t.Cleanup(server.Close)

	cfg := config.Example()
	cfg.PublisherURL = server.URL
	cfg.Credentials.Token = "token"

	c, err := Dial(context.Background(), cfg, WithCallTimeout(time.Second), WithHTTPClient(server.Client()))
	require.NoError(t, err)
	require.Equal(t, server.URL, c.BaseURL())

	report, err := c.Status(context.Background(), "abc")
	require.NoError(t, err)
	require.Equal(t, domain.StatusValidated, report.State)
}
