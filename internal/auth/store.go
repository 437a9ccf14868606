// Package auth stores pre-provisioned OAuth tokens and builds
// authenticated HTTP clients from them. Interactive authorization is
// out of scope; tokens are seeded externally (sidekick token import)
// and refreshed transparently via their refresh tokens.
package auth

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const schema = `
CREATE TABLE IF NOT EXISTS tokens (
	service       TEXT PRIMARY KEY,
	access_token  TEXT NOT NULL,
	token_type    TEXT NOT NULL DEFAULT 'Bearer',
	refresh_token TEXT NOT NULL DEFAULT '',
	expiry        TIMESTAMP
);`

// TokenStore persists one OAuth token per service name.
type TokenStore struct {
	db     *sql.DB
	logger *zap.Logger
}

func OpenStore(path string, logger *zap.Logger) (*TokenStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize token store: %w", err)
	}

	return &TokenStore{db: db, logger: logger}, nil
}

func (s *TokenStore) Close() error {
	return s.db.Close()
}

// Token loads the stored token for a service.
func (s *TokenStore) Token(service string) (*oauth2.Token, error) {
	row := s.db.QueryRow(
		`SELECT access_token, token_type, refresh_token, expiry FROM tokens WHERE service = ?`,
		service)

	var tok oauth2.Token
	var expiry sql.NullTime
	if err := row.Scan(&tok.AccessToken, &tok.TokenType, &tok.RefreshToken, &expiry); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no token stored for %s, run the token import first", service)
		}
		return nil, fmt.Errorf("failed to load %s token: %w", service, err)
	}
	if expiry.Valid {
		tok.Expiry = expiry.Time
	}

	return &tok, nil
}

// Save upserts the token for a service.
func (s *TokenStore) Save(service string, tok *oauth2.Token) error {
	_, err := s.db.Exec(
		`INSERT INTO tokens (service, access_token, token_type, refresh_token, expiry)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(service) DO UPDATE SET
		   access_token = excluded.access_token,
		   token_type = excluded.token_type,
		   refresh_token = excluded.refresh_token,
		   expiry = excluded.expiry`,
		service, tok.AccessToken, tok.TokenType, tok.RefreshToken, tok.Expiry)
	if err != nil {
		return fmt.Errorf("failed to save %s token: %w", service, err)
	}

	s.logger.Debug("Token saved",
		zap.String("service", service),
		zap.Time("expiry", tok.Expiry))
	return nil
}

// HTTPClient returns an HTTP client that authenticates with the stored
// token for the service, refreshing through cfg and writing refreshed
// tokens back to the store.
func (s *TokenStore) HTTPClient(ctx context.Context, service string, cfg *oauth2.Config) (*http.Client, error) {
	tok, err := s.Token(service)
	if err != nil {
		return nil, err
	}

	src := &persistingSource{
		store:   s,
		service: service,
		wrapped: cfg.TokenSource(ctx, tok),
		last:    tok.AccessToken,
	}

	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, src)), nil
}

// persistingSource writes refreshed tokens back to the store so the next
// process start does not need a fresh refresh cycle.
type persistingSource struct {
	store   *TokenStore
	service string
	wrapped oauth2.TokenSource
	last    string
}

func (p *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := p.wrapped.Token()
	if err != nil {
		return nil, err
	}

	if tok.AccessToken != p.last {
		p.last = tok.AccessToken
		if saveErr := p.store.Save(p.service, tok); saveErr != nil {
			p.store.logger.Warn("Failed to persist refreshed token",
				zap.String("service", p.service),
				zap.Error(saveErr))
		}
	}

	return tok, nil
}

// Expired reports whether the stored token for a service is past its
// expiry with no refresh token to renew it.
func (s *TokenStore) Expired(service string) (bool, error) {
	tok, err := s.Token(service)
	if err != nil {
		return true, err
	}
	if tok.RefreshToken != "" {
		return false, nil
	}
	return !tok.Expiry.IsZero() && time.Now().After(tok.Expiry), nil
}
