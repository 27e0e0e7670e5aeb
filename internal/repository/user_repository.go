package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/homereach/estate-api/internal/model"
	"github.com/homereach/estate-api/internal/utils"
)

// UserRepo provides access to the users table, including the failed-login
// lockout columns.  Counter updates are expressed as single atomic
// statements so concurrent failed attempts cannot lose updates.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id, email, password_hash, role, phone, bio,
	email_verified, two_factor_enabled, two_factor_secret, last_login_ip,
	failed_login_attempts, account_locked_until, password_changed_at,
	last_active, is_active, created_at, updated_at`

func scanUser(row *sql.Row) (model.User, error) {
	var (
		u          model.User
		lockedAt   sql.NullTime
		pwAt       sql.NullTime
		lastActive sql.NullTime
		lastIP     sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Phone, &u.Bio,
		&u.EmailVerified, &u.TwoFactorEnabled, &u.TwoFactorSecret, &lastIP,
		&u.FailedLogins, &lockedAt, &pwAt, &lastActive, &u.IsActive,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	if lastIP.Valid {
		u.LastLoginIP = lastIP.String
	}
	if lockedAt.Valid {
		t := lockedAt.Time
		u.LockedUntil = &t
	}
	if pwAt.Valid {
		t := pwAt.Time
		u.PasswordChangedAt = &t
	}
	if lastActive.Valid {
		t := lastActive.Time
		u.LastActive = &t
	}
	return u, nil
}

// Create inserts a user and returns its ID.  The email is normalized and
// password_changed_at is stamped so the expiry clock starts at signup.
func (r *UserRepo) Create(ctx context.Context, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role, password_changed_at) VALUES (?,?,?,UTC_TIMESTAMP())",
		email, hash, role)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// RegisterFailedLogin increments the failed-login counter and, when the
// counter reaches threshold with this attempt, opens the lockout window.
// Both columns change in one UPDATE so two concurrent failures serialize
// on the row and neither increment is lost.  Returns the post-increment
// counter value.
func (r *UserRepo) RegisterFailedLogin(ctx context.Context, id uint64, threshold int, lockFor time.Duration) (int, error) {
	lockSec := int64(lockFor / time.Second)
	_, err := r.DB.ExecContext(ctx, `
		UPDATE users SET
			failed_login_attempts = failed_login_attempts + 1,
			account_locked_until = IF(failed_login_attempts + 1 >= ?,
				DATE_ADD(UTC_TIMESTAMP(), INTERVAL ? SECOND),
				account_locked_until)
		WHERE id = ?`,
		threshold, lockSec, id)
	if err != nil {
		return 0, err
	}
	var n int
	err = r.DB.QueryRowContext(ctx,
		"SELECT failed_login_attempts FROM users WHERE id=?", id).Scan(&n)
	return n, err
}

// ResetFailedLogins clears the counter and the lock together, used after a
// successful authentication.
func (r *UserRepo) ResetFailedLogins(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET failed_login_attempts = 0, account_locked_until = NULL WHERE id = ?", id)
	return err
}

// StampActivity records the last-active timestamp and last-login IP.  The
// gate middleware calls this at most once per request.
func (r *UserRepo) StampActivity(ctx context.Context, id uint64, ip string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET last_active = UTC_TIMESTAMP(), last_login_ip = ? WHERE id = ?", ip, id)
	return err
}

// UpdatePassword sets a new password hash and stamps password_changed_at.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, password string, cost int) error {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash = ?, password_changed_at = UTC_TIMESTAMP() WHERE id = ?", hash, id)
	return err
}

// MarkEmailVerified flips the email_verified flag.
func (r *UserRepo) MarkEmailVerified(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET email_verified = TRUE WHERE id = ?", id)
	return err
}

// UpdateProfile persists the mutable contact fields.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, phone, bio string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET phone = ?, bio = ? WHERE id = ?", phone, bio, id)
	return err
}

// SetTwoFactorSecret stores a pending TOTP secret without enabling 2FA.
func (r *UserRepo) SetTwoFactorSecret(ctx context.Context, id uint64, secret string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET two_factor_secret = ? WHERE id = ?", secret, id)
	return err
}

// EnableTwoFactor activates 2FA once the first TOTP code has validated.
func (r *UserRepo) EnableTwoFactor(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET two_factor_enabled = TRUE WHERE id = ?", id)
	return err
}

// DisableTwoFactor turns 2FA off and clears the secret.
func (r *UserRepo) DisableTwoFactor(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET two_factor_enabled = FALSE, two_factor_secret = '' WHERE id = ?", id)
	return err
}
