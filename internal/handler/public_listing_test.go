package handler

import "testing"

func TestPrivilegedStatus(t *testing.T) {
	tests := []struct {
		name        string
		role, param string
		wantStatus  string
		wantAll     bool
	}{
		{"agent sees all", "agent", "all", "", true},
		{"agent narrows to sold", "agent", "sold", "sold", true},
		{"agent input is case-insensitive", "agent", "SOLD", "sold", true},
		{"agent with unknown status keeps guest view", "agent", "bogus", "", false},
		{"agent without the param keeps guest view", "agent", "", "", false},
		{"buyer never sees past available", "buyer", "all", "", false},
		{"anonymous role never sees past available", "", "all", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, all := privilegedStatus(tc.role, tc.param)
			if status != tc.wantStatus || all != tc.wantAll {
				t.Errorf("privilegedStatus(%q, %q) = (%q, %v), want (%q, %v)",
					tc.role, tc.param, status, all, tc.wantStatus, tc.wantAll)
			}
		})
	}
}
