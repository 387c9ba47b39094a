// Package credentials persists the access/refresh token pair between agent
// runs. The pair lives in a local SQLite database under the fixed keys
// "token" and "refreshToken"; values are sealed with AES-GCM under a key
// derived from machine identity, so the file alone does not expose tokens.
//
// Invariant: the database never ends an operation holding exactly one of
// the two keys. SavePair and ErasePair run in a single transaction, and
// LoadPair treats a lone row as an absent pair and erases it.
package credentials

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/user"

	"github.com/pressly/goose/v3"

	"github.com/aricainsights/toucan/internal/agent/credentials/migrations"
	"github.com/aricainsights/toucan/internal/agent/models"
	"github.com/aricainsights/toucan/internal/common"
	"github.com/aricainsights/toucan/internal/cryptox"
	"github.com/aricainsights/toucan/internal/dbx"
)

const (
	KeyToken        = "token"
	KeyRefreshToken = "refreshToken"

	keySalt = "salt"
)

// machineSecret is a test seam; it derives the sealing secret from
// hostname and local username.
var machineSecret = func() []byte {
	host, _ := os.Hostname()
	name := ""
	if u, err := user.Current(); err == nil {
		name = u.Username
	}
	return []byte(host + "|" + name + "|toucan-credentials")
}

// Store owns the credentials database connection and the sealing key.
type Store struct {
	db  *sql.DB
	key []byte
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		log.Fatal("failed to set goose dialect:", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the credentials database at dsn, applies
// migrations, and derives the sealing key. The caller owns Close.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.deriveKey(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// deriveKey loads (or creates on first run) the random salt row and derives
// the AES key from the machine secret.
func (s *Store) deriveKey(ctx context.Context) error {
	repo := NewSQLiteRepository(s.db)

	salt, err := repo.Get(ctx, keySalt)
	if err != nil {
		return err
	}
	if salt == nil {
		salt = common.GenerateRandByteArray(32)
		if err := repo.Set(ctx, keySalt, salt); err != nil {
			return err
		}
	}

	s.key = cryptox.DeriveKey(machineSecret(), salt)
	return nil
}

// SavePair seals and stores both tokens in a single transaction.
func (s *Store) SavePair(ctx context.Context, pair models.TokenPair) error {
	if !pair.Valid() {
		return fmt.Errorf("refusing to save partial credential pair: %w", common.ErrInternal)
	}

	sealedToken, err := cryptox.Seal([]byte(pair.Token), s.key)
	if err != nil {
		return err
	}
	sealedRefresh, err := cryptox.Seal([]byte(pair.RefreshToken), s.key)
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.Set(ctx, KeyToken, sealedToken); err != nil {
			return err
		}
		return repo.Set(ctx, KeyRefreshToken, sealedRefresh)
	})
}

// LoadPair returns the stored pair. ok is false when the pair is absent.
// A database holding exactly one of the two keys, or rows that fail to
// unseal, is repaired to the absent state before returning.
func (s *Store) LoadPair(ctx context.Context) (pair models.TokenPair, ok bool, err error) {
	repo := NewSQLiteRepository(s.db)

	sealedToken, err := repo.Get(ctx, KeyToken)
	if err != nil {
		return models.TokenPair{}, false, err
	}
	sealedRefresh, err := repo.Get(ctx, KeyRefreshToken)
	if err != nil {
		return models.TokenPair{}, false, err
	}

	if sealedToken == nil && sealedRefresh == nil {
		return models.TokenPair{}, false, nil
	}
	if sealedToken == nil || sealedRefresh == nil {
		// Half a pair is treated as unauthenticated.
		if err := s.ErasePair(ctx); err != nil {
			return models.TokenPair{}, false, err
		}
		return models.TokenPair{}, false, nil
	}

	token, errT := cryptox.Open(sealedToken, s.key)
	refresh, errR := cryptox.Open(sealedRefresh, s.key)
	if errT != nil || errR != nil {
		if err := s.ErasePair(ctx); err != nil {
			return models.TokenPair{}, false, err
		}
		return models.TokenPair{}, false, nil
	}

	return models.TokenPair{Token: string(token), RefreshToken: string(refresh)}, true, nil
}

// ErasePair removes both tokens in a single transaction. Erasing an absent
// pair is a no-op.
func (s *Store) ErasePair(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, KeyToken); err != nil {
			return err
		}
		return repo.Delete(ctx, KeyRefreshToken)
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}
