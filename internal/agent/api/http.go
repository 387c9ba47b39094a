package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/aricainsights/toucan/internal/agent/models"
	"github.com/aricainsights/toucan/internal/agent/scan"
	"github.com/aricainsights/toucan/internal/agent/survey"
	"github.com/aricainsights/toucan/internal/common"
	"github.com/aricainsights/toucan/internal/logging"
)

// Overridable in tests.
var (
	createAuditBackoff = 1 * time.Second
	createAuditRetries = uint64(3)
)

// HTTPClient talks JSON over HTTP to the AricaInsights platform. Bearer
// tokens come from a TokenSource; when a request comes back 401 the client
// refreshes the pair and retries once, rotating the new pair back into the
// source.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     logging.Logger

	// serializes refreshes so concurrent 401s do not race the rotation
	refreshMu sync.Mutex
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenSource, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}
}

// errorBody is the platform's error envelope.
type errorBody struct {
	Error string `json:"error"`
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do performs one request and decodes the response into out (if non-nil).
// Authenticated requests get a bearer header; an expiring token is refreshed
// proactively, and a 401 triggers one refresh-and-retry.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	if authed {
		if pair := c.tokens.Pair(); TokenExpired(pair.Token) {
			if err := c.refresh(ctx, pair); err != nil {
				return err
			}
		}
	}

	err := c.doOnce(ctx, method, path, body, out, authed)
	if !authed || !errors.Is(err, common.ErrUnauthorized) {
		return err
	}

	c.log.Debug(ctx, "request unauthorized, refreshing token", "path", path)
	if err := c.refresh(ctx, c.tokens.Pair()); err != nil {
		return err
	}
	return c.doOnce(ctx, method, path, body, out, authed)
}

func (c *HTTPClient) doOnce(ctx context.Context, method, path string, body, out any, authed bool) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.tokens.Pair().Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return common.ErrUnauthorized
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return common.ErrUnavailable
	}

	var body errorBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body); err == nil && body.Error != "" {
		return fmt.Errorf("server: %s", body.Error)
	}
	return fmt.Errorf("server returned %s", resp.Status)
}

// refresh exchanges the refresh token for a new pair and rotates it into
// the token source. stale is the pair the caller observed failing; if the
// source already holds a different pair another caller refreshed first and
// this one just retries with it.
func (c *HTTPClient) refresh(ctx context.Context, stale models.TokenPair) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	pair := c.tokens.Pair()
	if pair != stale {
		return nil
	}
	if pair.RefreshToken == "" {
		return common.ErrUnauthorized
	}

	var fresh models.TokenPair
	err := c.doOnce(ctx, http.MethodPost, "/api/auth/refresh",
		map[string]string{"refreshToken": pair.RefreshToken}, &fresh, false)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			return common.ErrRefreshTokenExpired
		}
		return err
	}
	if !fresh.Valid() {
		return fmt.Errorf("%w: refresh returned incomplete pair", common.ErrInternal)
	}

	c.tokens.SetPair(fresh)
	c.log.Debug(ctx, "token pair refreshed")
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	var result models.AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", loginRequest{Email: email, Password: password}, &result, false)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Signup(ctx context.Context, email, password, firstName, lastName string) (*models.AuthResult, error) {
	var result models.AuthResult
	req := signupRequest{Email: email, Password: password, FirstName: firstName, LastName: lastName}
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", req, &result, false); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user, true); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) TrackKeyword(ctx context.Context, keyword string) error {
	return c.do(ctx, http.MethodPost, "/api/keywords", map[string]string{"keyword": keyword}, nil, true)
}

func (c *HTTPClient) Mentions(ctx context.Context) ([]models.Mention, error) {
	var resp struct {
		Mentions []models.Mention `json:"mentions"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/mentions", nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Mentions, nil
}

// CreateAudit opens a new audit on the platform and returns its ID. The
// call retries with exponential backoff (1s, 2s, 4s) on transient failures
// before giving up.
func (c *HTTPClient) CreateAudit(ctx context.Context) (string, error) {
	var resp struct {
		AuditID string `json:"auditId"`
	}

	backoff := retry.WithMaxRetries(createAuditRetries, retry.NewExponential(createAuditBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := c.do(ctx, http.MethodPost, "/api/audit/create", nil, &resp, true)
		if errors.Is(err, common.ErrUnavailable) {
			c.log.Warn(ctx, "audit create failed, retrying", "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return "", err
	}
	return resp.AuditID, nil
}

func (c *HTTPClient) UploadSystemData(ctx context.Context, auditID string, report *scan.Report) error {
	payload := struct {
		AuditID    string       `json:"auditId"`
		SystemData *scan.Report `json:"systemData"`
	}{AuditID: auditID, SystemData: report}
	return c.do(ctx, http.MethodPost, "/api/audit/upload-system-data", payload, nil, true)
}

func (c *HTTPClient) SubmitQuestionnaire(ctx context.Context, auditID string, sub *survey.Submission) error {
	payload := struct {
		AuditID   string             `json:"auditId"`
		Responses *survey.Submission `json:"responses"`
	}{AuditID: auditID, Responses: sub}
	return c.do(ctx, http.MethodPost, "/api/audit/submit-questionnaire", payload, nil, true)
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil, false)
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
