package deployment

import (
	"errors"
	"fmt"
	"slices"
)

// Status is the remote state of a deployment.
type Status string

// Deployment states reported by the publisher API.
const (
	StatusPending    Status = "PENDING"
	StatusValidating Status = "VALIDATING"
	StatusValidated  Status = "VALIDATED"
	StatusPublishing Status = "PUBLISHING"
	StatusPublished  Status = "PUBLISHED"
	StatusFailed     Status = "FAILED"
)

// ErrUnknownStatus is returned when a status string is not part of the state machine.
var ErrUnknownStatus = errors.New("unknown deployment status")

// transitions lists the states reachable in one step from each state.
//
//nolint:gochecknoglobals // Static transition table.
var transitions = map[Status][]Status{
	StatusPending:    {StatusValidating, StatusFailed},
	StatusValidating: {StatusValidated, StatusFailed},
	StatusValidated:  {StatusPublishing, StatusFailed},
	StatusPublishing: {StatusPublished, StatusFailed},
	StatusPublished:  nil,
	StatusFailed:     nil,
}

// ParseStatus converts a remote status string. It is strict: the value must match
// one of the known states exactly, nothing is mapped to a default.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if _, ok := transitions[status]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}

	return status, nil
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusPublished || s == StatusFailed
}

// CanTransition reports whether next is reachable from s in a single step.
func (s Status) CanTransition(next Status) bool {
	return slices.Contains(transitions[s], next)
}

// Reached reports whether s is at or beyond target on the success path.
// FAILED never reaches anything but itself.
func (s Status) Reached(target Status) bool {
	if s == target {
		return true
	}

	if s == StatusFailed || target == StatusFailed {
		return false
	}

	return s.rank() >= target.rank()
}

// rank orders the success path of the state machine.
func (s Status) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusValidating:
		return 1
	case StatusValidated:
		return 2
	case StatusPublishing:
		return 3
	case StatusPublished:
		return 4
	default:
		return -1
	}
}
