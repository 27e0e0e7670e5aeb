package security

import (
	"testing"
	"time"
)

const (
	testThreshold = 5
	testLockFor   = 30 * time.Minute
)

func TestApplyFailedLoginReachesThreshold(t *testing.T) {
	tests := []struct {
		name     string
		failed   int
		wantLock bool
	}{
		{"first failure", 0, false},
		{"fourth failure", 3, false},
		{"fifth failure locks", 4, true},
		{"failure after an expired window relocks", 5, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			count, until := ApplyFailedLogin(tc.failed, testThreshold, testLockFor, testNow)
			if count != tc.failed+1 {
				t.Fatalf("count = %d, want %d", count, tc.failed+1)
			}
			if tc.wantLock {
				if until == nil {
					t.Fatal("expected a lock window, got none")
				}
				if want := testNow.Add(testLockFor); !until.Equal(want) {
					t.Fatalf("lockedUntil = %v, want %v", until, want)
				}
			} else if until != nil {
				t.Fatalf("unexpected lock window %v below threshold", until)
			}
		})
	}
}

func TestLockActive(t *testing.T) {
	if LockActive(nil, testNow) {
		t.Error("nil lock timestamp reported active")
	}
	if LockActive(ago(time.Minute), testNow) {
		t.Error("elapsed lock reported active")
	}
	if !LockActive(ahead(time.Minute), testNow) {
		t.Error("open window reported inactive")
	}
	exact := testNow
	if LockActive(&exact, testNow) {
		t.Error("lock expiring exactly now should be inactive")
	}
}

// An attempt during the window is rejected by the LockActive check before
// the failure transition runs, so the counter stays put and the window
// expires on its original schedule.
func TestAttemptDuringWindowDoesNotExtendLock(t *testing.T) {
	count, until := ApplyFailedLogin(testThreshold-1, testThreshold, testLockFor, testNow)
	if until == nil {
		t.Fatal("fifth failure should open the window")
	}

	retryAt := testNow.Add(10 * time.Minute)
	if !LockActive(until, retryAt) {
		t.Fatal("window should still be open ten minutes in")
	}
	// Rejected attempt: no ApplyFailedLogin call, nothing changes.
	if count != testThreshold {
		t.Fatalf("counter moved to %d during the window", count)
	}
	if got, want := *until, testNow.Add(testLockFor); !got.Equal(want) {
		t.Fatalf("window end moved to %v, want %v", got, want)
	}

	// The lock ends exactly lockFor after the locking attempt.
	if LockActive(until, testNow.Add(testLockFor)) {
		t.Error("window should be closed at its expiry instant")
	}
}
