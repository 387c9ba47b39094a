// Package netx contains the connectivity preflight used before talking to
// the AricaInsights API: DNS resolution followed by a TCP dial, so the agent
// can distinguish "no network" from an API-level failure.
package netx

import (
	"context"
	"fmt"
	"net"
	"net/url"
)

// CheckReachable verifies that the host of serverURL resolves in DNS and
// accepts a TCP connection. When the URL carries no explicit port, 443 is
// assumed for https and 80 otherwise.
func CheckReachable(ctx context.Context, serverURL string) error {
	u, err := url.Parse(serverURL)
	if err != nil {
		return fmt.Errorf("invalid server url %q: %w", serverURL, err)
	}
	host := u.Hostname()
	if host == "" {
		return fmt.Errorf("invalid server url %q: no host", serverURL)
	}

	port := u.Port()
	if port == "" {
		if u.Scheme == "https" {
			port = "443"
		} else {
			port = "80"
		}
	}

	var resolver net.Resolver
	if _, err := resolver.LookupHost(ctx, host); err != nil {
		return fmt.Errorf("dns resolution failed for %s: %w", host, err)
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		return fmt.Errorf("tcp dial failed for %s:%s: %w", host, port, err)
	}
	return conn.Close()
}
