package netx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCheckReachable_LocalServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, CheckReachable(ctx, srv.URL))
}

func TestCheckReachable_InvalidURL(t *testing.T) {
	require.Error(t, CheckReachable(context.Background(), "not a url"))
	require.Error(t, CheckReachable(context.Background(), "relative/path"))
}

func TestCheckReachable_UnresolvableHost(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := CheckReachable(ctx, "http://host.invalid")
	require.Error(t, err)
}

func TestCheckReachable_ClosedPort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	require.Error(t, CheckReachable(ctx, addr))
}
