package central

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDeploymentID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{name: "plain", body: " abc-123\n", want: "abc-123"},
		{name: "json string", body: `"abc-123"`, want: "abc-123"},
		{name: "json object", body: `{"deploymentId":"abc-123"}`, want: "abc-123"},
		{name: "empty", body: "  ", wantErr: true},
		{name: "object without id", body: `{"other":"x"}`, wantErr: true},
		{name: "broken json", body: `{"deploymentId":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseDeploymentID(tt.body)
			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	got, err := parseErrors(nil)
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = parseErrors(json.RawMessage(`{"b":"single","a":["one","two"]}`))
	require.NoError(t, err)
	require.Equal(t, []string{"a: one", "a: two", "b: single"}, got)

	_, err = parseErrors(json.RawMessage(`42`))
	require.ErrorIs(t, err, errMalformedErrors)
}

func TestServerMessage(t *testing.T) {
	t.Parallel()

	require.Equal(t, "nested", serverMessage(`{"error":{"message":"nested"}}`))
	require.Equal(t, "flat", serverMessage(`{"error":"flat"}`))
	require.Equal(t, "top", serverMessage(`{"message":"top"}`))
	require.Equal(t, "plain text", serverMessage("plain text\n"))
	require.Equal(t, "empty response", serverMessage(""))
}
