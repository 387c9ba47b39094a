package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/aricainsights/toucan/internal/agent/api"
	"github.com/aricainsights/toucan/internal/agent/config"
	"github.com/aricainsights/toucan/internal/agent/scan"
	"github.com/aricainsights/toucan/internal/agent/session"
	"github.com/aricainsights/toucan/internal/logging"
)

type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

const pingTimeout = 3 * time.Second

// App is the interactive agent. All user I/O goes through reader/out so
// tests can drive the REPL with buffers.
type App struct {
	config    *config.Config
	session   *session.Manager
	api       api.Client
	collector *scan.Collector
	log       logging.Logger
	reader    *bufio.Reader
	out       io.Writer

	mu   sync.Mutex
	mode Mode
}

func NewApp(cfg *config.Config, sess *session.Manager, client api.Client, collector *scan.Collector, log logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		config:    cfg,
		session:   sess,
		api:       client,
		collector: collector,
		log:       log,
		reader:    bufio.NewReader(in),
		out:       out,
		mode:      ModeOffline,
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()
	if changed {
		fmt.Fprintf(a.out, "Switched to %s mode\n", mode)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

// StartOnlineStatusWatcher periodically pings the server and flips the
// connectivity mode accordingly. Blocks until ctx is cancelled.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
			err := a.api.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
