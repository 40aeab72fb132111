package deployment

import (
	"errors"
	"fmt"
	"strings"
)

// ID is the opaque deployment identifier issued by the publisher API.
type ID string

// String returns the identifier as issued.
func (id ID) String() string {
	return string(id)
}

// ErrEmptyID is returned when a deployment identifier is required but empty.
var ErrEmptyID = errors.New("deployment id must be provided")

// Validate rejects empty identifiers.
func (id ID) Validate() error {
	if strings.TrimSpace(string(id)) == "" {
		return ErrEmptyID
	}

	return nil
}

// PublishingType tells the publisher what to do once validation passes.
type PublishingType string

const (
	// Automatic publishes the deployment as soon as validation passes.
	Automatic PublishingType = "AUTOMATIC"
	// UserManaged holds a validated deployment until it is promoted explicitly.
	UserManaged PublishingType = "USER_MANAGED"
)

// ErrUnknownPublishingType is returned for unsupported publishing modes.
var ErrUnknownPublishingType = errors.New("unknown publishing type")

// ParsePublishingType converts a configuration value into a PublishingType.
// An empty value selects Automatic.
func ParsePublishingType(s string) (PublishingType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(Automatic):
		return Automatic, nil
	case string(UserManaged):
		return UserManaged, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPublishingType, s)
	}
}
