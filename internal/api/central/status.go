package central

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/oshokin/central-publisher/internal/domain/deployment"
)

// Report is the remote view of a deployment.
type Report struct {
	// ID is the queried deployment.
	ID deployment.ID
	// Name is the deployment name shown in the portal.
	Name string
	// State is the current state.
	State deployment.Status
	// PURLs are the package URLs of the published components.
	PURLs []string
	// Errors are the validation errors reported by the server.
	Errors []string
}

type statusResponse struct {
	DeploymentID    string          `json:"deploymentId"`
	DeploymentName  string          `json:"deploymentName"`
	DeploymentState string          `json:"deploymentState"`
	PURLs           []string        `json:"purls"`
	Errors          json.RawMessage `json:"errors"`
}

// Status performs one status query. Any failure, including an unknown state, is a *StatusError.
func (c *Client) Status(ctx context.Context, id deployment.ID) (*Report, error) {
	if err := id.Validate(); err != nil {
		return nil, &StatusError{ID: id, Err: err}
	}

	resp, err := c.do(ctx, http.MethodGet, c.endpoints.Status(id), nil, "")
	if err != nil {
		return nil, &StatusError{ID: id, Err: err}
	}

	if !resp.ok() {
		return nil, &StatusError{ID: id, StatusCode: resp.statusCode, Body: resp.body}
	}

	var payload statusResponse
	if err = json.Unmarshal([]byte(resp.body), &payload); err != nil {
		return nil, &StatusError{ID: id, StatusCode: resp.statusCode, Body: resp.body,
			Err: fmt.Errorf("decode status: %w", err)}
	}

	state, err := deployment.ParseStatus(payload.DeploymentState)
	if err != nil {
		return nil, &StatusError{ID: id, StatusCode: resp.statusCode, Body: resp.body, Err: err}
	}

	validationErrors, err := parseErrors(payload.Errors)
	if err != nil {
		return nil, &StatusError{ID: id, StatusCode: resp.statusCode, Body: resp.body, Err: err}
	}

	return &Report{
		ID:     id,
		Name:   payload.DeploymentName,
		State:  state,
		PURLs:  payload.PURLs,
		Errors: validationErrors,
	}, nil
}
