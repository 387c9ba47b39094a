package session

import (
	"context"
	"time"

	"github.com/aricainsights/toucan/internal/agent/credentials"
	"github.com/aricainsights/toucan/internal/agent/models"
	"github.com/aricainsights/toucan/internal/agent/securestore"
	"github.com/aricainsights/toucan/internal/logging"
)

// CredentialStore is the durable half of token storage, satisfied by
// credentials.Store.
type CredentialStore interface {
	SavePair(ctx context.Context, pair models.TokenPair) error
	LoadPair(ctx context.Context) (models.TokenPair, bool, error)
	ErasePair(ctx context.Context) error
}

const persistTimeout = 5 * time.Second

// TokenStore keeps the credential pair in two places: the in-memory
// securestore for request signing, and the durable credentials database so
// the session survives restarts. It implements api.TokenSource.
type TokenStore struct {
	mem *securestore.Store
	db  CredentialStore
	log logging.Logger
}

func NewTokenStore(mem *securestore.Store, db CredentialStore, log logging.Logger) *TokenStore {
	return &TokenStore{mem: mem, db: db, log: log}
}

// Pair returns the in-memory pair. An incomplete pair reads as absent.
func (s *TokenStore) Pair() models.TokenPair {
	token, _ := s.mem.Get(credentials.KeyToken)
	refresh, _ := s.mem.Get(credentials.KeyRefreshToken)
	pair := models.TokenPair{Token: token, RefreshToken: refresh}
	if !pair.Valid() {
		return models.TokenPair{}
	}
	return pair
}

// SetPair installs a rotated pair. Called by the API client after a token
// refresh; durable persistence is best effort since the request that
// triggered the refresh must not fail on a local disk error.
func (s *TokenStore) SetPair(pair models.TokenPair) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := s.Save(ctx, pair); err != nil {
		s.log.Warn(ctx, "failed to persist rotated token pair", "error", err)
	}
}

// Save writes the pair to memory and disk.
func (s *TokenStore) Save(ctx context.Context, pair models.TokenPair) error {
	s.mem.Set(credentials.KeyToken, pair.Token)
	s.mem.Set(credentials.KeyRefreshToken, pair.RefreshToken)
	return s.db.SavePair(ctx, pair)
}

// Load reads the durable pair into memory. ok is false when no complete
// pair is stored.
func (s *TokenStore) Load(ctx context.Context) (models.TokenPair, bool, error) {
	pair, ok, err := s.db.LoadPair(ctx)
	if err != nil || !ok {
		return models.TokenPair{}, false, err
	}
	s.mem.Set(credentials.KeyToken, pair.Token)
	s.mem.Set(credentials.KeyRefreshToken, pair.RefreshToken)
	return pair, true, nil
}

// Erase removes the pair from memory and disk.
func (s *TokenStore) Erase(ctx context.Context) error {
	s.mem.Remove(credentials.KeyToken)
	s.mem.Remove(credentials.KeyRefreshToken)
	return s.db.ErasePair(ctx)
}
