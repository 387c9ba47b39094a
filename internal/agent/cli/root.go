package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

func (a *App) prompt() string {
	s := ""
	if user := a.session.User(); user != nil {
		s = user.Email + " "
	}
	s += string(a.Mode())
	return fmt.Sprintf("(%s)", s)
}

// Run restores the stored session, starts the connectivity watcher and
// enters the REPL. Blocks until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.api.Close()

	fmt.Fprintln(a.out, "AricaInsights agent (type 'help' for commands)")
	a.session.Initialize(ctx)

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	a.Root(ctx)
}

// Root is the REPL loop. Command handlers report user-facing problems on
// a.out themselves; errors returned here are I/O failures that end the
// loop.
func (a *App) Root(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(a.out, "arica %s> ", a.prompt())

		line, err := a.reader.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			return
		}
		atEOF := err != nil

		parts := strings.Fields(line)
		if len(parts) == 0 {
			if atEOF {
				return
			}
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			a.help()

		case "login":
			if err := a.Login(ctx); err != nil {
				return
			}
		case "signup":
			if err := a.Signup(ctx); err != nil {
				return
			}
		case "logout":
			_ = a.Logout(ctx)
		case "whoami":
			_ = a.Whoami(ctx)

		case "keywords":
			if !a.requireLogin() {
				continue
			}
			_ = a.Keywords(ctx, args)
		case "mentions":
			if !a.requireLogin() {
				continue
			}
			_ = a.Mentions(ctx)

		case "scan":
			_ = a.Scan(ctx, args)
		case "audit":
			if !a.requireLogin() {
				continue
			}
			_ = a.Audit(ctx, args)
		case "questionnaire":
			if !a.requireLogin() {
				continue
			}
			if len(args) == 0 {
				fmt.Fprintln(a.out, "Usage: questionnaire <audit-id>")
				continue
			}
			if err := a.Questionnaire(ctx, args[0]); err != nil {
				return
			}

		case "status":
			_ = a.Status(ctx)

		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return

		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}

		if atEOF {
			return
		}
	}
}

func (a *App) requireLogin() bool {
	if a.isLoggedIn() {
		return true
	}
	fmt.Fprintln(a.out, "Please login first.")
	return false
}

func (a *App) help() {
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Available commands: whoami, keywords [add <kw>], mentions, scan [--json], audit [--dry-run], questionnaire <audit-id>, status, logout, exit")
	} else {
		fmt.Fprintln(a.out, "Available commands: login, signup, scan [--json], status, exit")
	}
}
