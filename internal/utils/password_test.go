package utils

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", 4) // low cost keeps the test fast
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash equals plaintext")
	}
	if !VerifyPassword(hash, "s3cret-pass") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "wrong-pass") {
		t.Error("wrong password accepted")
	}
	if VerifyPassword("not-a-hash", "s3cret-pass") {
		t.Error("garbage hash accepted")
	}
}

func TestHashRefreshRaw(t *testing.T) {
	a := HashRefreshRaw("token-one")
	b := HashRefreshRaw("token-one")
	c := HashRefreshRaw("token-two")
	if a != b {
		t.Error("same input produced different hashes")
	}
	if a == c {
		t.Error("different inputs produced the same hash")
	}
	if len(a) != 64 { // sha256 hex
		t.Errorf("len = %d, want 64", len(a))
	}
}
