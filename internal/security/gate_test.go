package security

import (
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func ago(d time.Duration) *time.Time {
	t := testNow.Add(-d)
	return &t
}

func ahead(d time.Duration) *time.Time {
	t := testNow.Add(d)
	return &t
}

// healthyAccount passes every check: verified, fresh password, no 2FA.
func healthyAccount() AccountState {
	return AccountState{
		EmailVerified:     true,
		PasswordChangedAt: ago(24 * time.Hour),
	}
}

func TestEvaluatePriorityOrder(t *testing.T) {
	gate := Gate{PasswordMaxAge: 90 * 24 * time.Hour}

	tests := []struct {
		name       string
		acct       AccountState
		sess       SessionState
		path       string
		wantOut    Outcome
		wantReason string
		wantTarget string
	}{
		{
			name:    "healthy account proceeds",
			acct:    healthyAccount(),
			path:    "/v1/listings",
			wantOut: Proceed,
		},
		{
			name:       "active lock denies",
			acct:       AccountState{LockedUntil: ahead(10 * time.Minute), EmailVerified: true, PasswordChangedAt: ago(time.Hour)},
			path:       "/v1/listings",
			wantOut:    Deny,
			wantReason: ReasonLocked,
		},
		{
			name:       "lock beats exemption",
			acct:       AccountState{LockedUntil: ahead(10 * time.Minute), EmailVerified: true, PasswordChangedAt: ago(time.Hour)},
			path:       "/v1/auth/logout",
			wantOut:    Deny,
			wantReason: ReasonLocked,
		},
		{
			name:    "expired lock is no lock",
			acct:    AccountState{LockedUntil: ago(time.Minute), EmailVerified: true, PasswordChangedAt: ago(time.Hour)},
			path:    "/v1/listings",
			wantOut: Proceed,
		},
		{
			name:       "unverified email redirects",
			acct:       AccountState{EmailVerified: false, PasswordChangedAt: ago(time.Hour)},
			path:       "/v1/listings",
			wantOut:    Redirect,
			wantTarget: TargetVerifyEmail,
		},
		{
			name:    "unverified email exempt on verification path",
			acct:    AccountState{EmailVerified: false, PasswordChangedAt: ago(time.Hour)},
			path:    "/v1/account/verify-email/resend",
			wantOut: Proceed,
		},
		{
			name:    "unverified email exempt on static assets",
			acct:    AccountState{EmailVerified: false},
			path:    "/static/css/site.css",
			wantOut: Proceed,
		},
		{
			name:       "expired password redirects",
			acct:       AccountState{EmailVerified: true, PasswordChangedAt: ago(91 * 24 * time.Hour)},
			path:       "/v1/listings",
			wantOut:    Redirect,
			wantTarget: TargetChangePassword,
		},
		{
			name:    "password below max age proceeds",
			acct:    AccountState{EmailVerified: true, PasswordChangedAt: ago(89 * 24 * time.Hour)},
			path:    "/v1/listings",
			wantOut: Proceed,
		},
		{
			name:    "never-changed password does not expire",
			acct:    AccountState{EmailVerified: true},
			path:    "/v1/listings",
			wantOut: Proceed,
		},
		{
			name:    "password change path exempt from expiry redirect",
			acct:    AccountState{EmailVerified: true, PasswordChangedAt: ago(120 * 24 * time.Hour)},
			path:    "/v1/account/password",
			wantOut: Proceed,
		},
		{
			name: "unverified email checked before expired password",
			acct: AccountState{
				EmailVerified:     false,
				PasswordChangedAt: ago(120 * 24 * time.Hour),
			},
			path:       "/v1/listings",
			wantOut:    Redirect,
			wantTarget: TargetVerifyEmail,
		},
		{
			name: "expired password checked before 2FA",
			acct: AccountState{
				EmailVerified:     true,
				TwoFactorEnabled:  true,
				PasswordChangedAt: ago(120 * 24 * time.Hour),
			},
			path:       "/v1/my/listings",
			wantOut:    Redirect,
			wantTarget: TargetChangePassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := gate.Evaluate(tt.acct, tt.sess, tt.path, testNow)
			if d.Outcome != tt.wantOut {
				t.Fatalf("Outcome = %v, want %v (decision %+v)", d.Outcome, tt.wantOut, d)
			}
			if d.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", d.Reason, tt.wantReason)
			}
			if d.Target != tt.wantTarget {
				t.Errorf("Target = %q, want %q", d.Target, tt.wantTarget)
			}
		})
	}
}

func TestEvaluateTwoFactorOnSensitivePaths(t *testing.T) {
	gate := Gate{PasswordMaxAge: 90 * 24 * time.Hour}
	acct := healthyAccount()
	acct.TwoFactorEnabled = true

	tests := []struct {
		path     string
		verified bool
		wantOut  Outcome
	}{
		{"/v1/account/settings", false, Redirect},
		{"/v1/my/listings", false, Redirect},
		{"/v1/my/listings/42", false, Redirect},
		{"/v1/listings", false, Proceed},        // public browse is not sensitive
		{"/v1/my/favorites", false, Proceed},    // only listing management is sensitive
		{"/v1/account/password", false, Proceed}, // exemption wins over sensitivity
		{"/v1/account/settings", true, Proceed},
		{"/v1/my/listings", true, Proceed},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			d := gate.Evaluate(acct, SessionState{TwoFAVerified: tt.verified}, tt.path, testNow)
			if d.Outcome != tt.wantOut {
				t.Fatalf("verified=%v Outcome = %v, want %v", tt.verified, d.Outcome, tt.wantOut)
			}
			if d.Outcome == Redirect && d.Target != Target2FAChallenge {
				t.Errorf("Target = %q, want %q", d.Target, Target2FAChallenge)
			}
		})
	}
}

func TestEvaluateTwoFactorDisabledIgnoresSession(t *testing.T) {
	gate := Gate{}
	d := gate.Evaluate(healthyAccount(), SessionState{}, "/v1/my/listings", testNow)
	if d.Outcome != Proceed {
		t.Errorf("Outcome = %v, want Proceed", d.Outcome)
	}
}

func TestEvaluateZeroMaxAgeDefaultsToNinetyDays(t *testing.T) {
	gate := Gate{} // PasswordMaxAge unset
	acct := AccountState{EmailVerified: true, PasswordChangedAt: ago(91 * 24 * time.Hour)}
	d := gate.Evaluate(acct, SessionState{}, "/v1/listings", testNow)
	if d.Outcome != Redirect || d.Target != TargetChangePassword {
		t.Errorf("decision = %+v, want change-password redirect", d)
	}
}

func TestEvaluateExactBoundaryExpires(t *testing.T) {
	gate := Gate{PasswordMaxAge: 90 * 24 * time.Hour}
	acct := AccountState{EmailVerified: true, PasswordChangedAt: ago(90 * 24 * time.Hour)}
	d := gate.Evaluate(acct, SessionState{}, "/v1/listings", testNow)
	if d.Outcome != Redirect {
		t.Errorf("age exactly at max: Outcome = %v, want Redirect", d.Outcome)
	}
}

func TestEvaluateIsPure(t *testing.T) {
	gate := Gate{PasswordMaxAge: 90 * 24 * time.Hour}
	acct := AccountState{EmailVerified: true, TwoFactorEnabled: true, PasswordChangedAt: ago(time.Hour)}
	sess := SessionState{}

	first := gate.Evaluate(acct, sess, "/v1/account/settings", testNow)
	for i := 0; i < 5; i++ {
		if got := gate.Evaluate(acct, sess, "/v1/account/settings", testNow); got != first {
			t.Fatalf("evaluation %d = %+v, first = %+v", i, got, first)
		}
	}
}
