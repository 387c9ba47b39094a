package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aricainsights/toucan/internal/common"
	"github.com/aricainsights/toucan/internal/sanitize"
	"github.com/aricainsights/toucan/internal/validate"
)

// Keywords lists tracked keywords, or with "add <keyword>" starts tracking
// a new one.
func (a *App) Keywords(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "add" {
		keyword := strings.TrimSpace(strings.Join(args[1:], " "))
		if !validate.Keyword(keyword) {
			fmt.Fprintln(a.out, "Keywords are 2-50 characters: letters, digits, spaces and hyphens.")
			return nil
		}
		if err := a.api.TrackKeyword(ctx, keyword); err != nil {
			a.reportAPIError(ctx, err)
			return nil
		}
		fmt.Fprintf(a.out, "Now tracking %q\n", keyword)
		return nil
	}

	user, err := a.api.CurrentUser(ctx)
	if err != nil {
		a.reportAPIError(ctx, err)
		return nil
	}
	if len(user.Keywords) == 0 {
		fmt.Fprintln(a.out, "No keywords tracked yet. Use: keywords add <keyword>")
		return nil
	}
	for _, kw := range user.Keywords {
		fmt.Fprintf(a.out, "  - %s\n", sanitize.Text(kw))
	}
	return nil
}

// Mentions fetches and prints recent mentions. Excerpts and URLs come from
// crawled external content and are sanitized before they reach the
// terminal.
func (a *App) Mentions(ctx context.Context) error {
	mentions, err := a.api.Mentions(ctx)
	if err != nil {
		a.reportAPIError(ctx, err)
		return nil
	}
	if len(mentions) == 0 {
		fmt.Fprintln(a.out, "No mentions yet.")
		return nil
	}

	for _, m := range mentions {
		fmt.Fprintf(a.out, "[%s] %s (%s)\n", m.PublishedAt.Format("2006-01-02"), sanitize.Text(m.Keyword), m.Sentiment)
		if excerpt := sanitize.HTML(m.Excerpt); excerpt != "" {
			fmt.Fprintf(a.out, "    %s\n", excerpt)
		}
		fmt.Fprintf(a.out, "    %s\n", sanitize.URL(m.URL))
	}
	return nil
}

func (a *App) reportAPIError(ctx context.Context, err error) {
	switch {
	case errors.Is(err, common.ErrUnavailable):
		fmt.Fprintln(a.out, "Server unavailable. Try again later.")
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrRefreshTokenExpired):
		fmt.Fprintln(a.out, "Session expired. Please login again.")
	default:
		fmt.Fprintf(a.out, "Request failed: %s\n", err)
	}
	a.log.Debug(ctx, "api request failed", "error", err)
}
