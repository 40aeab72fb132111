package central_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/central-publisher/internal/api/central"
	"github.com/oshokin/central-publisher/internal/domain/deployment"
)

func TestNewEndpointsDefaults(t *testing.T) {
	t.Parallel()

	endpoints, err := central.NewEndpoints("")
	require.NoError(t, err)
	require.Equal(t, central.DefaultBaseURL, endpoints.BaseURL())
}

func TestEndpointURLs(t *testing.T) {
	t.Parallel()

	endpoints, err := central.NewEndpoints("https://repo.example.com/api/v1/publisher/")
	require.NoError(t, err)

	require.Equal(t,
		"https://repo.example.com/api/v1/publisher/upload?name=foo-1.0.0&publishingType=USER_MANAGED",
		endpoints.Upload(deployment.UserManaged, "foo-1.0.0"))
	require.Equal(t,
		"https://repo.example.com/api/v1/publisher/upload?publishingType=AUTOMATIC",
		endpoints.Upload(deployment.Automatic, ""))
	require.Equal(t,
		"https://repo.example.com/api/v1/publisher/status?id=abc-123",
		endpoints.Status("abc-123"))
	require.Equal(t,
		"https://repo.example.com/api/v1/publisher/published?id=abc-123",
		endpoints.Publish("abc-123"))
	require.Equal(t,
		"https://repo.example.com/api/v1/publisher/deployment/abc-123",
		endpoints.Deployment("abc-123"))
}

func TestNewEndpointsRejectsInvalidURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"ftp://example.com", "not a url", "/relative/path"} {
		_, err := central.NewEndpoints(raw)
		require.Error(t, err, raw)
	}
}

func TestCredentials(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, central.Credentials{}.Validate(), central.ErrMissingCredentials)
	require.ErrorIs(t, central.Credentials{Username: "user"}.Validate(), central.ErrMissingCredentials)
	require.NoError(t, central.Credentials{Token: "t"}.Validate())

	basic := central.Credentials{Username: "user", Password: "pass"}
	require.NoError(t, basic.Validate())
	require.Equal(t, "Bearer dXNlcjpwYXNz", basic.Authorization())
	require.NotContains(t, basic.String(), "pass")

	token := central.Credentials{Username: "user", Password: "pass", Token: "tok"}
	require.Equal(t, "Bearer tok", token.Authorization())
}
