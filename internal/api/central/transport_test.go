package central

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDialAnyWithoutAddresses(t *testing.T) {
	t.Parallel()

	dial := func(context.Context, string, string) (net.Conn, error) {
		t.Fatal("dial must not be called without addresses")

		return nil, nil
	}

	conn, err := dialAny(context.Background(), dial, "tcp", "443", nil)
	require.Nil(t, conn)
	require.ErrorIs(t, err, errNoAddress)
	require.NotContains(t, err.Error(), "%!")
}

func TestDialAnyKeepsLastFailure(t *testing.T) {
	t.Parallel()

	refused := errors.New("connection refused")

	var tried []string

	dial := func(_ context.Context, _, addr string) (net.Conn, error) {
		tried = append(tried, addr)

		return nil, refused
	}

	_, err := dialAny(context.Background(), dial, "tcp", "443", []string{"10.0.0.1", "::1"})
	require.ErrorIs(t, err, errNoAddress)
	require.ErrorIs(t, err, refused)
	require.Equal(t, []string{"10.0.0.1:443", "[::1]:443"}, tried)
}

func TestDialAnyReturnsFirstConnection(t *testing.T) {
	t.Parallel()

	client, server := net.Pipe()
	t.Cleanup(func() {
		_ = client.Close()
		_ = server.Close()
	})

	dial := func(_ context.Context, _, addr string) (net.Conn, error) {
		if addr == "10.0.0.2:443" {
			return client, nil
		}

		return nil, errors.New("unreachable")
	}

	conn, err := dialAny(context.Background(), dial, "tcp", "443", []string{"10.0.0.1", "10.0.0.2"})
	require.NoError(t, err)
	require.Same(t, client, conn)
}
