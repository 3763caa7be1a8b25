package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrRefreshInvalid is returned when a refresh token hash is unknown,
// already revoked, or past its expiry.  Callers treat all three the same
// way, so the reason is deliberately not distinguished.
var ErrRefreshInvalid = errors.New("refresh token invalid")

// TokenRepo persists refresh tokens.  Only the SHA-256 hash of a token is
// ever stored; the raw value lives with the client.
type TokenRepo struct {
	db *sql.DB
}

// NewTokenRepo returns a TokenRepo bound to the given database.
func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{db: db} }

// StoreRefresh inserts a refresh token hash row for a user session.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?, ?, ?)`,
		userID, tokenHash, exp)
	if isDuplicateKey(err) {
		return ErrAlreadyExists
	}
	return err
}

// ValidateRefresh resolves a token hash to its user.  Unknown, revoked and
// expired tokens all fail with ErrRefreshInvalid.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	var (
		userID    uint64
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash = ? LIMIT 1`,
		tokenHash).Scan(&userID, &expiresAt, &revokedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrRefreshInvalid
	}
	if err != nil {
		return 0, err
	}
	if !refreshUsable(expiresAt, revokedAt, time.Now().UTC()) {
		return 0, ErrRefreshInvalid
	}
	return userID, nil
}

// refreshUsable reports whether a stored refresh token may still be
// exchanged: never revoked and not yet expired at the given instant.
func refreshUsable(expiresAt time.Time, revokedAt sql.NullTime, now time.Time) bool {
	if revokedAt.Valid {
		return false
	}
	return now.Before(expiresAt)
}

// RevokeByHash marks one token as revoked.  Revoking an unknown or
// already-revoked hash is a no-op.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = NOW() WHERE token_hash = ? AND revoked_at IS NULL`,
		tokenHash)
	return err
}

// RevokeAllForUser revokes every active token of a user, ending all of
// their sessions at once.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = NOW() WHERE user_id = ? AND revoked_at IS NULL`,
		userID)
	return err
}
