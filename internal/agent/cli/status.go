package cli

import (
	"context"
	"fmt"

	"github.com/aricainsights/toucan/internal/netx"
)

// Status runs a connectivity preflight (DNS + TCP) followed by an API
// health check, and prints the session state.
func (a *App) Status(ctx context.Context) error {
	fmt.Fprintf(a.out, "Server:  %s\n", a.config.ServerURL)

	if err := netx.CheckReachable(ctx, a.config.ServerURL); err != nil {
		fmt.Fprintf(a.out, "Network: unreachable (%s)\n", err)
		a.setMode(ModeOffline)
	} else if err := a.api.Ping(ctx); err != nil {
		fmt.Fprintf(a.out, "Network: reachable, but the API is not responding (%s)\n", err)
		a.setMode(ModeOffline)
	} else {
		fmt.Fprintln(a.out, "Network: online")
		a.setMode(ModeOnline)
	}

	fmt.Fprintf(a.out, "Session: %s\n", a.session.Status())
	if user := a.session.User(); user != nil {
		fmt.Fprintf(a.out, "Account: %s\n", user.Email)
	}
	return nil
}
