package central

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/oshokin/central-publisher/internal/domain/deployment"
)

// DefaultBaseURL is the publisher API root used when none is configured.
const DefaultBaseURL = "https://central.sonatype.com/api/v1/publisher"

// errInvalidBaseURL is returned by NewEndpoints for unusable base URLs.
var errInvalidBaseURL = errors.New("publisher URL must be an absolute http(s) URL")

// Endpoints builds request URLs below one immutable base URL.
type Endpoints struct {
	base url.URL
}

// NewEndpoints parses the base URL, DefaultBaseURL is used when raw is empty.
func NewEndpoints(raw string) (Endpoints, error) {
	if raw == "" {
		raw = DefaultBaseURL
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return Endpoints{}, fmt.Errorf("%w: %w", errInvalidBaseURL, err)
	}

	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return Endpoints{}, fmt.Errorf("%w: %q", errInvalidBaseURL, raw)
	}

	parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	parsed.RawQuery = ""
	parsed.Fragment = ""

	return Endpoints{base: *parsed}, nil
}

// BaseURL returns the normalized base URL.
func (e Endpoints) BaseURL() string {
	return e.base.String()
}

// Upload returns the bundle upload URL.
func (e Endpoints) Upload(publishingType deployment.PublishingType, name string) string {
	query := url.Values{}
	query.Set("publishingType", string(publishingType))

	if name != "" {
		query.Set("name", name)
	}

	return e.build("/upload", query)
}

// Status returns the deployment status URL.
func (e Endpoints) Status(id deployment.ID) string {
	return e.build("/status", url.Values{"id": {id.String()}})
}

// Publish returns the URL promoting a validated deployment.
func (e Endpoints) Publish(id deployment.ID) string {
	return e.build("/published", url.Values{"id": {id.String()}})
}

// Deployment returns the URL of a single deployment, used to drop it.
func (e Endpoints) Deployment(id deployment.ID) string {
	return e.build("/deployment/"+url.PathEscape(id.String()), nil)
}

func (e Endpoints) build(suffix string, query url.Values) string {
	u := e.base
	u.Path += suffix
	u.RawPath = ""

	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	return u.String()
}
