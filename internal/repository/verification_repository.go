package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// VerificationRepo manages single-use email verification tokens.
type VerificationRepo struct{ DB *sql.DB }

func NewVerificationRepo(db *sql.DB) *VerificationRepo { return &VerificationRepo{DB: db} }

// CreateToken issues a fresh verification token for the user, valid for
// the given duration, and returns the token value.
func (r *VerificationRepo) CreateToken(ctx context.Context, userID uint64, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	exp := time.Now().UTC().Add(ttl)
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO email_verifications (user_id, token, expires_at) VALUES (?,?,?)",
		userID, token, exp)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Consume validates an outstanding token and marks it used together with
// flipping users.email_verified, inside one transaction so a token cannot
// be spent twice.  Returns the owning user id.
func (r *VerificationRepo) Consume(ctx context.Context, token string) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var userID uint64
	err = tx.QueryRowContext(ctx, `
		SELECT user_id FROM email_verifications
		WHERE token = ? AND used_at IS NULL AND expires_at > UTC_TIMESTAMP()
		LIMIT 1 FOR UPDATE`,
		token).Scan(&userID)
	if err != nil {
		return 0, err
	}
	if _, err = tx.ExecContext(ctx,
		"UPDATE email_verifications SET used_at = UTC_TIMESTAMP() WHERE token = ?", token); err != nil {
		return 0, err
	}
	if _, err = tx.ExecContext(ctx,
		"UPDATE users SET email_verified = TRUE WHERE id = ?", userID); err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return userID, nil
}
