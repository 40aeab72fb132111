package deployment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestParseStatus accepts every known state and rejects anything else without defaulting.
func TestParseStatus(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"PENDING", "VALIDATING", "VALIDATED", "PUBLISHING", "PUBLISHED", "FAILED"} {
		status, err := ParseStatus(s)
		require.NoError(t, err)
		require.Equal(t, Status(s), status)
	}

	for _, s := range []string{"", "published", "DONE", " PUBLISHED"} {
		_, err := ParseStatus(s)
		require.ErrorIs(t, err, ErrUnknownStatus, s)
	}
}

// TestStatusTransitions walks the success path and checks terminal states.
func TestStatusTransitions(t *testing.T) {
	t.Parallel()

	path := []Status{StatusPending, StatusValidating, StatusValidated, StatusPublishing, StatusPublished}
	for i := 0; i < len(path)-1; i++ {
		require.True(t, path[i].CanTransition(path[i+1]))
		require.True(t, path[i].CanTransition(StatusFailed))
		require.False(t, path[i].IsTerminal())
	}

	require.False(t, StatusPending.CanTransition(StatusPublished))
	require.False(t, StatusPublished.CanTransition(StatusFailed))
	require.True(t, StatusPublished.IsTerminal())
	require.True(t, StatusFailed.IsTerminal())
}

// TestStatusReached orders states along the success path.
func TestStatusReached(t *testing.T) {
	t.Parallel()

	require.True(t, StatusPublishing.Reached(StatusValidated))
	require.True(t, StatusValidated.Reached(StatusValidated))
	require.False(t, StatusValidating.Reached(StatusValidated))
	require.False(t, StatusFailed.Reached(StatusValidated))
	require.True(t, StatusFailed.Reached(StatusFailed))
}

// TestParsePublishingType defaults to AUTOMATIC and rejects unknown modes.
func TestParsePublishingType(t *testing.T) {
	t.Parallel()

	pt, err := ParsePublishingType("")
	require.NoError(t, err)
	require.Equal(t, Automatic, pt)

	pt, err = ParsePublishingType("user_managed")
	require.NoError(t, err)
	require.Equal(t, UserManaged, pt)

	_, err = ParsePublishingType("MANUAL")
	require.ErrorIs(t, err, ErrUnknownPublishingType)

	require.ErrorIs(t, ID(" ").Validate(), ErrEmptyID)
	require.NoError(t, ID("abc123").Validate())
}

func TestRecordCloneAndObserve(t *testing.T) {
	t.Parallel()

	original := &Record{
		ID:         "abc",
		UploadedBy: &Actor{Hostname: "ci", Username: "builder"},
	}

	cloned := original.Clone()
	cloned.UploadedBy.Username = "someone-else"
	require.Equal(t, "builder", original.UploadedBy.Username)
	require.Equal(t, "builder@ci", original.UploadedBy.String())

	at := time.Date(2026, time.January, 2, 3, 4, 5, 0, time.UTC)
	original.Observe(StatusValidated, at)
	require.Equal(t, StatusValidated, original.LastState)
	require.Equal(t, at, original.CheckedAt)

	var empty *Record
	require.Nil(t, empty.Clone())
}
