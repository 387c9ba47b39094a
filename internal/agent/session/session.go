// Package session owns the client-side authentication lifecycle: restoring
// a persisted session on startup, login/signup/logout, and broadcasting
// state transitions to observers.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/aricainsights/toucan/internal/agent/api"
	"github.com/aricainsights/toucan/internal/agent/models"
	"github.com/aricainsights/toucan/internal/agent/notify"
	"github.com/aricainsights/toucan/internal/logging"
)

// Status is the session state. A Manager starts Loading and leaves that
// state exactly once, when Initialize resolves.
type Status int

const (
	StatusLoading Status = iota
	StatusAuthenticated
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Manager coordinates authentication state. Login and Signup report outcome
// as a bool and never return an error; failures are logged and leave the
// session unauthenticated.
//
// Every auth attempt is tagged with a generation ID. A resolution whose
// generation no longer matches the Manager's current one (because a newer
// attempt or a logout started meanwhile) is discarded without touching
// state, so a slow login can never clobber a newer session.
type Manager struct {
	api      api.Client
	tokens   *TokenStore
	notifier notify.Notifier
	log      logging.Logger

	mu      sync.Mutex
	status  Status
	user    *models.User
	attempt uuid.UUID
	subs    map[int]func(Status)
	nextSub int
}

func NewManager(client api.Client, tokens *TokenStore, notifier notify.Notifier, log logging.Logger) *Manager {
	return &Manager{
		api:      client,
		tokens:   tokens,
		notifier: notifier,
		log:      log,
		status:   StatusLoading,
		subs:     make(map[int]func(Status)),
	}
}

// begin starts a new auth attempt and invalidates any in-flight one.
func (m *Manager) begin() uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempt = uuid.New()
	return m.attempt
}

// resolve applies an attempt's outcome unless the attempt went stale.
// Returns whether the outcome was applied.
func (m *Manager) resolve(gen uuid.UUID, status Status, user *models.User) bool {
	m.mu.Lock()
	if m.attempt != gen {
		m.mu.Unlock()
		m.log.Debug(context.Background(), "discarding stale auth resolution", "status", status)
		return false
	}
	changed := m.status != status
	m.status = status
	m.user = user
	subs := m.snapshotSubs()
	m.mu.Unlock()

	if changed {
		for _, fn := range subs {
			fn(status)
		}
	}
	return true
}

// resolveAuth is resolve for the success path: the pair is persisted while
// the lock is held so a concurrent attempt's erase cannot interleave with
// this attempt's save.
func (m *Manager) resolveAuth(ctx context.Context, gen uuid.UUID, user *models.User, pair models.TokenPair) bool {
	m.mu.Lock()
	if m.attempt != gen {
		m.mu.Unlock()
		m.log.Debug(ctx, "discarding stale auth resolution", "status", StatusAuthenticated)
		return false
	}
	if err := m.tokens.Save(ctx, pair); err != nil {
		m.log.Warn(ctx, "failed to persist credential pair", "error", err)
	}
	m.status = StatusAuthenticated
	m.user = user
	subs := m.snapshotSubs()
	m.mu.Unlock()

	for _, fn := range subs {
		fn(StatusAuthenticated)
	}
	return true
}

// Initialize restores a persisted session. Absent or unusable credentials
// resolve to Unauthenticated silently; the user is never shown an error on
// startup.
func (m *Manager) Initialize(ctx context.Context) {
	gen := m.begin()

	_, ok, err := m.tokens.Load(ctx)
	if err != nil {
		m.log.Warn(ctx, "failed to load stored credentials", "error", err)
	}
	if err != nil || !ok {
		m.resolve(gen, StatusUnauthenticated, nil)
		return
	}

	user, err := m.api.CurrentUser(ctx)
	if err != nil {
		m.log.Info(ctx, "stored session not restorable", "error", err)
		if m.resolve(gen, StatusUnauthenticated, nil) {
			if err := m.tokens.Erase(ctx); err != nil {
				m.log.Warn(ctx, "failed to erase stale credentials", "error", err)
			}
		}
		return
	}

	m.resolve(gen, StatusAuthenticated, user)
}

// Login authenticates with email and password. Stored credentials are
// erased before the attempt, so a failed login always leaves the session
// unauthenticated with no pair on disk.
func (m *Manager) Login(ctx context.Context, email, password string) bool {
	gen := m.begin()
	if err := m.tokens.Erase(ctx); err != nil {
		m.log.Warn(ctx, "failed to erase credentials before login", "error", err)
	}

	result, err := m.api.Login(ctx, email, password)
	if err != nil {
		m.log.Info(ctx, "login failed", "error", err)
		m.resolve(gen, StatusUnauthenticated, nil)
		return false
	}

	return m.adopt(ctx, gen, result, "Logged in")
}

// Signup registers a new account and logs it in on success.
func (m *Manager) Signup(ctx context.Context, email, password, firstName, lastName string) bool {
	gen := m.begin()
	if err := m.tokens.Erase(ctx); err != nil {
		m.log.Warn(ctx, "failed to erase credentials before signup", "error", err)
	}

	result, err := m.api.Signup(ctx, email, password, firstName, lastName)
	if err != nil {
		m.log.Info(ctx, "signup failed", "error", err)
		m.resolve(gen, StatusUnauthenticated, nil)
		return false
	}

	return m.adopt(ctx, gen, result, "Account created, logged in")
}

func (m *Manager) adopt(ctx context.Context, gen uuid.UUID, result *models.AuthResult, successMsg string) bool {
	if !result.Valid() {
		m.log.Warn(ctx, "auth response missing token pair")
		m.resolve(gen, StatusUnauthenticated, nil)
		return false
	}
	if !m.resolveAuth(ctx, gen, result.User, result.TokenPair) {
		return false
	}
	if result.User != nil {
		m.notifier.Success(fmt.Sprintf("%s as %s", successMsg, result.User.Email))
	} else {
		m.notifier.Success(successMsg)
	}
	return true
}

// Logout erases credentials and clears the user. Calling it while already
// unauthenticated is a no-op apart from re-erasing storage.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.attempt = uuid.New()
	changed := m.status != StatusUnauthenticated
	m.status = StatusUnauthenticated
	m.user = nil
	subs := m.snapshotSubs()
	m.mu.Unlock()

	if err := m.tokens.Erase(ctx); err != nil {
		m.log.Warn(ctx, "failed to erase credentials on logout", "error", err)
	}

	if changed {
		for _, fn := range subs {
			fn(StatusUnauthenticated)
		}
		m.notifier.Success("Logged out")
	}
}

// Status returns the current session state.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *Manager) IsAuthenticated() bool { return m.Status() == StatusAuthenticated }
func (m *Manager) IsLoading() bool       { return m.Status() == StatusLoading }

// User returns the authenticated account, or nil.
func (m *Manager) User() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// Subscribe registers fn to run on every status transition. The returned
// cancel func removes the subscription; calling it twice is safe.
func (m *Manager) Subscribe(fn func(Status)) (cancel func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// snapshotSubs copies subscribers for invocation outside the lock. Caller
// must hold mu.
func (m *Manager) snapshotSubs() []func(Status) {
	subs := make([]func(Status), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	return subs
}
