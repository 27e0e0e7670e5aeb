package utils

import (
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
)

func TestNewTOTPSecret(t *testing.T) {
	secret, url, err := NewTOTPSecret("agent@example.com")
	if err != nil {
		t.Fatalf("NewTOTPSecret: %v", err)
	}
	if secret == "" {
		t.Error("empty secret")
	}
	if url == "" {
		t.Error("empty provisioning URL")
	}

	other, _, err := NewTOTPSecret("agent@example.com")
	if err != nil {
		t.Fatalf("NewTOTPSecret: %v", err)
	}
	if secret == other {
		t.Error("two generations produced the same secret")
	}
}

func TestVerifyTOTP(t *testing.T) {
	secret, _, err := NewTOTPSecret("agent@example.com")
	if err != nil {
		t.Fatalf("NewTOTPSecret: %v", err)
	}

	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		t.Fatalf("GenerateCode: %v", err)
	}
	if !VerifyTOTP(secret, code) {
		t.Error("valid code rejected")
	}
	if VerifyTOTP(secret, "000000") && code != "000000" {
		t.Error("wrong code accepted")
	}
	if VerifyTOTP("", code) {
		t.Error("empty secret accepted a code")
	}
}
