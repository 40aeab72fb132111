package config

import (
	"errors"
	"fmt"
)

// errConfigIsNotSet is returned when a nil configuration is provided.
var errConfigIsNotSet = errors.New("configuration is not set")

// ConfigurationError names the setting that is missing or invalid.
//
//nolint:revive // The name mirrors the other stage errors of the pipeline.
type ConfigurationError struct {
	// Field is the YAML path of the offending setting, e.g. "coordinate.group_id".
	Field string
	// Err describes what is wrong with it.
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func fieldError(field string, err error) error {
	return &ConfigurationError{Field: field, Err: err}
}
