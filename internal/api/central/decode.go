package central

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/oshokin/central-publisher/internal/domain/deployment"
)

var (
	// errEmptyDeploymentID is returned when an upload succeeded without yielding an identifier.
	errEmptyDeploymentID = errors.New("response carries no deployment id")
	// errMalformedErrors is returned for an errors field that is neither a list nor an object.
	errMalformedErrors = errors.New("malformed errors field")
)

// parseDeploymentID accepts a plain text id, a JSON string or an object with a deploymentId field.
func parseDeploymentID(body string) (deployment.ID, error) {
	trimmed := strings.TrimSpace(body)

	switch {
	case strings.HasPrefix(trimmed, `"`):
		var id string
		if err := json.Unmarshal([]byte(trimmed), &id); err != nil {
			return "", fmt.Errorf("decode deployment id: %w", err)
		}

		trimmed = strings.TrimSpace(id)
	case strings.HasPrefix(trimmed, "{"):
		var payload struct {
			DeploymentID string `json:"deploymentId"`
		}

		if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
			return "", fmt.Errorf("decode deployment id: %w", err)
		}

		trimmed = strings.TrimSpace(payload.DeploymentID)
	}

	if trimmed == "" {
		return "", errEmptyDeploymentID
	}

	return deployment.ID(trimmed), nil
}

// parseErrors flattens the errors field of a status response.
// A list is returned as is, an object is flattened to "<component>: <message>" sorted by component.
func parseErrors(raw json.RawMessage) ([]string, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var byComponent map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byComponent); err != nil {
		return nil, fmt.Errorf("%w: %s", errMalformedErrors, trimmed)
	}

	components := make([]string, 0, len(byComponent))
	for component := range byComponent {
		components = append(components, component)
	}

	slices.Sort(components)

	var flattened []string

	for _, component := range components {
		messages, err := componentMessages(byComponent[component])
		if err != nil {
			return nil, err
		}

		for _, message := range messages {
			flattened = append(flattened, component+": "+message)
		}
	}

	return flattened, nil
}

// componentMessages accepts either a list of messages or a single message.
func componentMessages(raw json.RawMessage) ([]string, error) {
	var messages []string
	if err := json.Unmarshal(raw, &messages); err == nil {
		return messages, nil
	}

	var message string
	if err := json.Unmarshal(raw, &message); err != nil {
		return nil, fmt.Errorf("%w: %s", errMalformedErrors, string(raw))
	}

	return []string{message}, nil
}

// decodeMessage pulls a message out of the usual JSON error shapes:
// {"error": {"message": "..."}}, {"error": "..."} or {"message": "..."}.
func decodeMessage(body string) string {
	var payload struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}

	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return ""
	}

	if len(payload.Error) > 0 {
		var text string
		if err := json.Unmarshal(payload.Error, &text); err == nil && text != "" {
			return text
		}

		var nested struct {
			Message string `json:"message"`
		}

		if err := json.Unmarshal(payload.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
	}

	return payload.Message
}
