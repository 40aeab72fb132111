package central

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/dnscache"
)

const (
	dialTimeout         = 30 * time.Second
	keepAlive           = 30 * time.Second
	idleConnTimeout     = 90 * time.Second
	tlsHandshakeTimeout = 10 * time.Second
	maxIdleConns        = 10
)

// errNoAddress is returned when no resolved address accepted the connection.
var errNoAddress = errors.New("failed to dial any resolved address")

type dialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// NewTransport returns an HTTP transport resolving hosts through a DNS cache.
// A status poll loop talks to the same host many times.
func NewTransport(resolver *dnscache.Resolver) *http.Transport {
	if resolver == nil {
		resolver = &dnscache.Resolver{}
	}

	dialer := &net.Dialer{
		Timeout:   dialTimeout,
		KeepAlive: keepAlive,
	}

	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, err
			}

			ips, err := resolver.LookupHost(ctx, host)
			if err != nil {
				return nil, err
			}

			conn, err := dialAny(ctx, dialer.DialContext, network, port, ips)
			if err != nil {
				return nil, fmt.Errorf("dial %s: %w", host, err)
			}

			return conn, nil
		},
		MaxIdleConns:          maxIdleConns,
		MaxIdleConnsPerHost:   maxIdleConns,
		IdleConnTimeout:       idleConnTimeout,
		TLSHandshakeTimeout:   tlsHandshakeTimeout,
		ExpectContinueTimeout: time.Second,
	}
}

// dialAny tries ips in order and returns the first connection established.
func dialAny(ctx context.Context, dial dialFunc, network, port string, ips []string) (net.Conn, error) {
	var lastErr error

	for _, ip := range ips {
		conn, err := dial(ctx, network, net.JoinHostPort(ip, port))
		if err == nil {
			return conn, nil
		}

		lastErr = err
	}

	if lastErr == nil {
		return nil, errNoAddress
	}

	return nil, fmt.Errorf("%w: %w", errNoAddress, lastErr)
}
