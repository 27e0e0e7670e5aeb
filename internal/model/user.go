package model

import "time"

// Role values stored in users.role.  A user picks exactly one role at
// registration and it never changes afterwards; capabilities are derived
// from the role through the predicates below instead of scattering string
// comparisons across handlers.
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAgent  = "agent"
)

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column in the database.  The json
// tags are omitted because these structs are used internally by the
// repository layer; handlers define separate response types with
// appropriate JSON tags.
//
// The security columns (FailedLogins, LockedUntil, PasswordChangedAt,
// TwoFactor*) feed the per-request security gate.  FailedLogins and
// LockedUntil always change together: the locking update sets both in a
// single statement and a successful login clears both.
//
// Fields:
//  ID                – primary key identifier of the user.
//  Email             – unique email address (stored lower-cased).
//  PasswordHash      – bcrypt hashed password.
//  Role              – buyer, seller or agent.
//  Phone             – optional contact phone.
//  Bio               – optional profile text.
//  EmailVerified     – whether the email address has been confirmed.
//  TwoFactorEnabled  – whether TOTP two-factor auth is active.
//  TwoFactorSecret   – base32 TOTP secret (empty when 2FA is off).
//  LastLoginIP       – IP recorded on the most recent gated request.
//  FailedLogins      – consecutive failed login attempts.
//  LockedUntil       – end of the lockout window (nil when not locked).
//  PasswordChangedAt – when the password was last set (nil for legacy rows).
//  LastActive        – most recent gated request timestamp.
//  IsActive          – whether the account is enabled at all.
//  CreatedAt         – timestamp of creation.
//  UpdatedAt         – timestamp of last update.
type User struct {
	ID                uint64     // users.id
	Email             string     // users.email
	PasswordHash      string     // users.password_hash
	Role              string     // users.role
	Phone             string     // users.phone
	Bio               string     // users.bio
	EmailVerified     bool       // users.email_verified
	TwoFactorEnabled  bool       // users.two_factor_enabled
	TwoFactorSecret   string     // users.two_factor_secret
	LastLoginIP       string     // users.last_login_ip
	FailedLogins      int        // users.failed_login_attempts
	LockedUntil       *time.Time // users.account_locked_until (nullable)
	PasswordChangedAt *time.Time // users.password_changed_at (nullable)
	LastActive        *time.Time // users.last_active (nullable)
	IsActive          bool       // users.is_active
	CreatedAt         time.Time  // users.created_at
	UpdatedAt         time.Time  // users.updated_at
}

// CanOwnListing reports whether the role may create and own listings.
func (u User) CanOwnListing() bool {
	return u.Role == RoleAgent || u.Role == RoleSeller
}

// CanManageListing reports whether the role may act as a managing agent.
func (u User) CanManageListing() bool {
	return u.Role == RoleAgent
}

// ValidRole reports whether s is one of the three closed role tags.
func ValidRole(s string) bool {
	return s == RoleBuyer || s == RoleSeller || s == RoleAgent
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user; only the SHA-256 hash of the raw
// token value is stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}

// EmailVerification models a pending email confirmation token.  Tokens are
// random UUIDs, single use, and expire independently of the session.
type EmailVerification struct {
	ID        uint64     // email_verifications.id
	UserID    uint64     // email_verifications.user_id
	Token     string     // email_verifications.token
	ExpiresAt time.Time  // email_verifications.expires_at
	UsedAt    *time.Time // email_verifications.used_at (nullable)
	CreatedAt time.Time  // email_verifications.created_at
}
