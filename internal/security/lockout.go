package security

import "time"

// LockActive reports whether a lockout window is open at now.  A nil or
// elapsed lock timestamp means the account is usable again; no reset is
// required for the window to end.
func LockActive(lockedUntil *time.Time, now time.Time) bool {
	return lockedUntil != nil && lockedUntil.After(now)
}

// ApplyFailedLogin is the lockout transition for one failed attempt: the
// counter goes up by one, and the attempt that reaches threshold opens a
// window of lockFor from that attempt.  Callers must check LockActive
// before authenticating, so an attempt inside an open window never reaches
// this transition and the window is never extended.  The user store runs
// the same transition as a single atomic UPDATE; this form exists so the
// policy is stated and testable in one place.
func ApplyFailedLogin(failed, threshold int, lockFor time.Duration, now time.Time) (count int, lockedUntil *time.Time) {
	count = failed + 1
	if threshold > 0 && count >= threshold {
		until := now.Add(lockFor)
		lockedUntil = &until
	}
	return count, lockedUntil
}
