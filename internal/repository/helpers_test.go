package repository

import (
	"errors"
	"testing"
)

func TestPlaceholdersN(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{1, "?"},
		{2, "?,?"},
		{4, "?,?,?,?"},
	}
	for _, tc := range cases {
		if got := placeholdersN(tc.n); got != tc.want {
			t.Errorf("placeholdersN(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestIsDuplicateKey(t *testing.T) {
	if !isDuplicateKey(errors.New("Error 1062 (23000): Duplicate entry 'a@b.c' for key 'users.email'")) {
		t.Error("mysql duplicate-entry error not detected")
	}
	if isDuplicateKey(errors.New("Error 1452: foreign key constraint fails")) {
		t.Error("unrelated error flagged as duplicate")
	}
	if isDuplicateKey(nil) {
		t.Error("nil error flagged as duplicate")
	}
}
