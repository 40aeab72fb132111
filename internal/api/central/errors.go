package central

import (
	"fmt"

	"github.com/oshokin/central-publisher/internal/domain/deployment"
)

// UploadError is returned when the archive upload fails.
// Either StatusCode and Body describe a rejected request or Err a transport failure.
type UploadError struct {
	// StatusCode is the HTTP status, zero on transport failure.
	StatusCode int
	// Body is the raw response body.
	Body string
	// Err is the transport failure, if any.
	Err error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upload failed: %v", e.Err)
	}

	return fmt.Sprintf("upload failed: HTTP %d: %s", e.StatusCode, e.Body)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// StatusError is returned when the deployment status cannot be obtained or understood.
type StatusError struct {
	// ID is the queried deployment.
	ID deployment.ID
	// StatusCode is the HTTP status, zero on transport or decoding failure.
	StatusCode int
	// Body is the raw response body.
	Body string
	// Err is the underlying failure, if any.
	Err error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("status of deployment %s: %v", e.ID, e.Err)
	}

	return fmt.Sprintf("status of deployment %s: HTTP %d: %s", e.ID, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// CancelError is returned when the server refuses to drop a deployment,
// e.g. because it is already published, already dropped or unknown.
type CancelError struct {
	// ID is the deployment that was to be dropped.
	ID deployment.ID
	// StatusCode is the HTTP status, zero on transport failure.
	StatusCode int
	// Message is the server supplied reason.
	Message string
	// Err is the transport failure, if any.
	Err error
}

func (e *CancelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("drop deployment %s: %v", e.ID, e.Err)
	}

	return fmt.Sprintf("drop deployment %s: HTTP %d: %s", e.ID, e.StatusCode, e.Message)
}

func (e *CancelError) Unwrap() error {
	return e.Err
}

// PromoteError is returned when a deployment cannot be published.
type PromoteError struct {
	// ID is the deployment that was to be published.
	ID deployment.ID
	// StatusCode is the HTTP status, zero on transport failure.
	StatusCode int
	// Message is the server supplied reason.
	Message string
	// Err is the transport failure, if any.
	Err error
}

func (e *PromoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("publish deployment %s: %v", e.ID, e.Err)
	}

	return fmt.Sprintf("publish deployment %s: HTTP %d: %s", e.ID, e.StatusCode, e.Message)
}

func (e *PromoteError) Unwrap() error {
	return e.Err
}
