package central

import (
	"context"
	"net/http"

	"github.com/oshokin/central-publisher/internal/domain/deployment"
	"github.com/oshokin/central-publisher/internal/logger"
)

// Drop asks the server to delete a deployment that is not published yet.
// A rejection is a *CancelError carrying the server message; calling again is safe.
func (c *Client) Drop(ctx context.Context, id deployment.ID) error {
	if err := id.Validate(); err != nil {
		return &CancelError{ID: id, Err: err}
	}

	resp, err := c.do(ctx, http.MethodDelete, c.endpoints.Deployment(id), nil, "")
	if err != nil {
		return &CancelError{ID: id, Err: err}
	}

	if !resp.ok() {
		return &CancelError{ID: id, StatusCode: resp.statusCode, Message: serverMessage(resp.body)}
	}

	logger.InfoKV(ctx, "Dropped deployment", "deployment_id", id.String())

	return nil
}

// Promote publishes a validated deployment uploaded with the USER_MANAGED publishing type.
func (c *Client) Promote(ctx context.Context, id deployment.ID) error {
	if err := id.Validate(); err != nil {
		return &PromoteError{ID: id, Err: err}
	}

	resp, err := c.do(ctx, http.MethodPost, c.endpoints.Publish(id), nil, "")
	if err != nil {
		return &PromoteError{ID: id, Err: err}
	}

	if !resp.ok() {
		return &PromoteError{ID: id, StatusCode: resp.statusCode, Message: serverMessage(resp.body)}
	}

	logger.InfoKV(ctx, "Promoted deployment", "deployment_id", id.String())

	return nil
}
