package publisher

import (
	"errors"
	"fmt"
)

// Stage names one step of the pipeline.
type Stage string

// Pipeline stages in execution order.
const (
	StageAggregate Stage = "aggregate"
	StageSign      Stage = "sign"
	StageHash      Stage = "hash"
	StageArchive   Stage = "archive"
	StageUpload    Stage = "upload"
	StagePoll      Stage = "poll"
)

var (
	// ErrDeploymentFailed is returned when the remote validation rejected the deployment.
	ErrDeploymentFailed = errors.New("deployment failed")
	// ErrWaitTimeout is returned when the deployment did not settle in time.
	ErrWaitTimeout = errors.New("timed out waiting for deployment")
	// errSignerRequired is returned when the pipeline is built without a signer.
	errSignerRequired = errors.New("signer must be provided")
)

// StageError wraps the failure of one pipeline stage.
type StageError struct {
	// Stage is the stage that failed.
	Stage Stage
	// Err is the stage failure.
	Err error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageError(stage Stage, err error) error {
	if err == nil {
		return nil
	}

	return &StageError{Stage: stage, Err: err}
}
