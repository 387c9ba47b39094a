package session

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aricainsights/toucan/internal/agent/models"
	"github.com/aricainsights/toucan/internal/agent/scan"
	"github.com/aricainsights/toucan/internal/agent/securestore"
	"github.com/aricainsights/toucan/internal/agent/survey"
	"github.com/aricainsights/toucan/internal/logging"
)

// memCreds is an in-memory CredentialStore.
type memCreds struct {
	mu   sync.Mutex
	pair models.TokenPair
	has  bool
}

func (c *memCreds) SavePair(ctx context.Context, pair models.TokenPair) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pair, c.has = pair, true
	return nil
}

func (c *memCreds) LoadPair(ctx context.Context) (models.TokenPair, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pair, c.has, nil
}

func (c *memCreds) ErasePair(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pair, c.has = models.TokenPair{}, false
	return nil
}

func (c *memCreds) stored() (models.TokenPair, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pair, c.has
}

// fakeClient implements api.Client with canned results. loginGate, when
// non-nil, blocks Login until the channel is closed.
type fakeClient struct {
	loginResult  *models.AuthResult
	loginErr     error
	signupResult *models.AuthResult
	signupErr    error
	user         *models.User
	userErr      error
	loginGate    chan struct{}
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	if f.loginGate != nil {
		<-f.loginGate
	}
	return f.loginResult, f.loginErr
}

func (f *fakeClient) Signup(ctx context.Context, email, password, first, last string) (*models.AuthResult, error) {
	return f.signupResult, f.signupErr
}

func (f *fakeClient) CurrentUser(ctx context.Context) (*models.User, error) {
	return f.user, f.userErr
}

func (f *fakeClient) TrackKeyword(ctx context.Context, keyword string) error { return nil }
func (f *fakeClient) Mentions(ctx context.Context) ([]models.Mention, error) { return nil, nil }
func (f *fakeClient) CreateAudit(ctx context.Context) (string, error)        { return "", nil }
func (f *fakeClient) UploadSystemData(ctx context.Context, id string, r *scan.Report) error {
	return nil
}
func (f *fakeClient) SubmitQuestionnaire(ctx context.Context, id string, s *survey.Submission) error {
	return nil
}
func (f *fakeClient) Ping(ctx context.Context) error { return nil }
func (f *fakeClient) Close() error                   { return nil }

// recordingNotifier captures messages by kind.
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}
func (n *recordingNotifier) Info(string) {}
func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func newTestManager(t *testing.T, client *fakeClient, creds *memCreds) (*Manager, *recordingNotifier) {
	t.Helper()
	log := logging.NewTextLogger(os.Stderr, slog.LevelError)
	tokens := NewTokenStore(securestore.New(), creds, log)
	notifier := &recordingNotifier{}
	return NewManager(client, tokens, notifier, log), notifier
}

var testPair = models.TokenPair{Token: "tok", RefreshToken: "ref"}

func TestInitialize_NoStoredPair(t *testing.T) {
	m, notifier := newTestManager(t, &fakeClient{}, &memCreds{})

	assert.True(t, m.IsLoading())
	m.Initialize(context.Background())

	assert.Equal(t, StatusUnauthenticated, m.Status())
	assert.Nil(t, m.User())
	assert.Empty(t, notifier.successes)
	assert.Empty(t, notifier.errors)
}

func TestInitialize_RestoresSession(t *testing.T) {
	client := &fakeClient{user: &models.User{ID: "u1", Email: "alice@example.com"}}
	creds := &memCreds{pair: testPair, has: true}
	m, _ := newTestManager(t, client, creds)

	m.Initialize(context.Background())

	assert.Equal(t, StatusAuthenticated, m.Status())
	require.NotNil(t, m.User())
	assert.Equal(t, "alice@example.com", m.User().Email)
}

func TestInitialize_UnusableCredentialsErasedSilently(t *testing.T) {
	client := &fakeClient{userErr: errors.New("token rejected")}
	creds := &memCreds{pair: testPair, has: true}
	m, notifier := newTestManager(t, client, creds)

	m.Initialize(context.Background())

	assert.Equal(t, StatusUnauthenticated, m.Status())
	_, has := creds.stored()
	assert.False(t, has, "stale pair erased")
	assert.Empty(t, notifier.errors, "startup failure is silent")
}

func TestLogin_Success(t *testing.T) {
	client := &fakeClient{loginResult: &models.AuthResult{
		TokenPair: testPair,
		User:      &models.User{ID: "u1", Email: "alice@example.com"},
	}}
	creds := &memCreds{}
	m, notifier := newTestManager(t, client, creds)
	m.Initialize(context.Background())

	var events []Status
	cancel := m.Subscribe(func(s Status) { events = append(events, s) })
	defer cancel()

	ok := m.Login(context.Background(), "alice@example.com", "hunter2hunter2")

	assert.True(t, ok)
	assert.Equal(t, StatusAuthenticated, m.Status())
	pair, has := creds.stored()
	require.True(t, has)
	assert.Equal(t, testPair, pair)
	assert.Equal(t, []Status{StatusAuthenticated}, events)
	require.Len(t, notifier.successes, 1)
	assert.Contains(t, notifier.successes[0], "alice@example.com")
}

func TestLogin_FailureErasesPreviousPair(t *testing.T) {
	client := &fakeClient{loginErr: errors.New("invalid credentials")}
	creds := &memCreds{pair: testPair, has: true}
	m, _ := newTestManager(t, client, creds)
	m.Initialize(context.Background())

	ok := m.Login(context.Background(), "alice@example.com", "wrong-password")

	assert.False(t, ok)
	assert.Equal(t, StatusUnauthenticated, m.Status())
	_, has := creds.stored()
	assert.False(t, has, "pair is erased before the attempt")
}

func TestLogin_IncompletePairRejected(t *testing.T) {
	client := &fakeClient{loginResult: &models.AuthResult{
		TokenPair: models.TokenPair{Token: "tok"},
		User:      &models.User{ID: "u1"},
	}}
	creds := &memCreds{}
	m, _ := newTestManager(t, client, creds)
	m.Initialize(context.Background())

	ok := m.Login(context.Background(), "alice@example.com", "hunter2hunter2")

	assert.False(t, ok)
	assert.Equal(t, StatusUnauthenticated, m.Status())
	_, has := creds.stored()
	assert.False(t, has)
}

func TestSignup_AutoLogin(t *testing.T) {
	client := &fakeClient{signupResult: &models.AuthResult{
		TokenPair: testPair,
		User:      &models.User{ID: "u2", Email: "bob@example.com"},
	}}
	creds := &memCreds{}
	m, notifier := newTestManager(t, client, creds)
	m.Initialize(context.Background())

	ok := m.Signup(context.Background(), "bob@example.com", "hunter2hunter2", "Bob", "Jones")

	assert.True(t, ok)
	assert.Equal(t, StatusAuthenticated, m.Status())
	_, has := creds.stored()
	assert.True(t, has)
	require.Len(t, notifier.successes, 1)
}

func TestStaleLoginDiscarded(t *testing.T) {
	gate := make(chan struct{})
	client := &fakeClient{
		loginGate: gate,
		loginResult: &models.AuthResult{
			TokenPair: testPair,
			User:      &models.User{ID: "u1", Email: "alice@example.com"},
		},
	}
	creds := &memCreds{}
	m, notifier := newTestManager(t, client, creds)
	m.Initialize(context.Background())

	done := make(chan bool, 1)
	go func() {
		done <- m.Login(context.Background(), "alice@example.com", "hunter2hunter2")
	}()

	// Logout while the login is in flight; its resolution must be discarded.
	time.Sleep(10 * time.Millisecond)
	m.Logout(context.Background())
	close(gate)

	select {
	case ok := <-done:
		assert.False(t, ok, "stale login must not report success")
	case <-time.After(time.Second):
		t.Fatal("login did not resolve")
	}

	assert.Equal(t, StatusUnauthenticated, m.Status())
	assert.Nil(t, m.User())
	_, has := creds.stored()
	assert.False(t, has, "stale login must not persist a pair")
	assert.Empty(t, notifier.successes, "no login notification after logout")
}

func TestLogout_Idempotent(t *testing.T) {
	client := &fakeClient{loginResult: &models.AuthResult{
		TokenPair: testPair,
		User:      &models.User{ID: "u1", Email: "alice@example.com"},
	}}
	creds := &memCreds{}
	m, _ := newTestManager(t, client, creds)
	m.Initialize(context.Background())
	require.True(t, m.Login(context.Background(), "alice@example.com", "hunter2hunter2"))

	var events int
	cancel := m.Subscribe(func(Status) { events++ })
	defer cancel()

	m.Logout(context.Background())
	m.Logout(context.Background())

	assert.Equal(t, StatusUnauthenticated, m.Status())
	assert.Nil(t, m.User())
	assert.Equal(t, 1, events, "second logout emits no event")
	_, has := creds.stored()
	assert.False(t, has)
}

func TestSubscribe_CancelStopsEvents(t *testing.T) {
	client := &fakeClient{loginResult: &models.AuthResult{
		TokenPair: testPair,
		User:      &models.User{ID: "u1", Email: "alice@example.com"},
	}}
	m, _ := newTestManager(t, client, &memCreds{})
	m.Initialize(context.Background())

	var events int
	cancel := m.Subscribe(func(Status) { events++ })
	cancel()

	m.Login(context.Background(), "alice@example.com", "hunter2hunter2")
	assert.Equal(t, 0, events)
}
