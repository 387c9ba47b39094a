// Package api implements the AricaInsights REST client used by the agent:
// authentication, keyword/mention reads, and the audit submission endpoints.
package api

import (
	"context"

	"github.com/aricainsights/toucan/internal/agent/models"
	"github.com/aricainsights/toucan/internal/agent/scan"
	"github.com/aricainsights/toucan/internal/agent/survey"
)

// TokenSource supplies the current credential pair for outbound requests
// and receives rotated pairs when the client refreshes mid-request.
type TokenSource interface {
	Pair() models.TokenPair
	SetPair(models.TokenPair)
}

// Client is the platform API surface consumed by the session manager and
// the CLI.
//
// Contract:
//   - Login/Signup: authenticate and return the credential pair plus user.
//   - CurrentUser: fetch the account behind the bearer token.
//   - TrackKeyword/Mentions: brand-monitoring reads and writes.
//   - CreateAudit/UploadSystemData/SubmitQuestionnaire: the audit flow.
//   - Ping: check server liveness.
//   - Close: release underlying transport resources.
//
// All methods must honor context cancellation/timeouts. Failures map to the
// sentinels in internal/common where a category applies.
type Client interface {
	Login(ctx context.Context, email, password string) (*models.AuthResult, error)
	Signup(ctx context.Context, email, password, firstName, lastName string) (*models.AuthResult, error)
	CurrentUser(ctx context.Context) (*models.User, error)

	TrackKeyword(ctx context.Context, keyword string) error
	Mentions(ctx context.Context) ([]models.Mention, error)

	CreateAudit(ctx context.Context) (string, error)
	UploadSystemData(ctx context.Context, auditID string, report *scan.Report) error
	SubmitQuestionnaire(ctx context.Context, auditID string, sub *survey.Submission) error

	Ping(ctx context.Context) error
	Close() error
}
