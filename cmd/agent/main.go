package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	_ "modernc.org/sqlite"

	"github.com/aricainsights/toucan/internal/agent/api"
	"github.com/aricainsights/toucan/internal/agent/cli"
	"github.com/aricainsights/toucan/internal/agent/config"
	"github.com/aricainsights/toucan/internal/agent/credentials"
	"github.com/aricainsights/toucan/internal/agent/notify"
	"github.com/aricainsights/toucan/internal/agent/scan"
	"github.com/aricainsights/toucan/internal/agent/securestore"
	"github.com/aricainsights/toucan/internal/agent/session"
	"github.com/aricainsights/toucan/internal/buildinfo"
	"github.com/aricainsights/toucan/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.NewTextLogger(os.Stderr, slog.LevelInfo)

	if err := os.MkdirAll(filepath.Dir(cfg.CredentialsPath), 0o700); err != nil {
		log.Fatalf("creating credentials directory: %v", err)
	}

	creds, err := credentials.Open(ctx, cfg.CredentialsPath)
	if err != nil {
		log.Fatalf("opening credentials store: %v", err)
	}
	defer creds.Close()

	tokens := session.NewTokenStore(securestore.New(), creds, logger)
	client := api.NewHTTPClient(cfg.ServerURL, cfg.RequestTimeout, tokens, logger)
	notifier := notify.NewWriter(os.Stdout)
	sess := session.NewManager(client, tokens, notifier, logger)
	collector := scan.NewCollector(logger)

	app := cli.NewApp(cfg, sess, client, collector, logger, os.Stdin, os.Stdout)
	app.Run(ctx)
}
