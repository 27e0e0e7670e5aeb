package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewAccessTokenClaims(t *testing.T) {
	const secret = "test-secret"

	at, err := NewAccessToken(secret, 42, "agent", true, 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if until := time.Until(at.Exp); until < 14*time.Minute || until > 16*time.Minute {
		t.Errorf("Exp %v not ~15m away", at.Exp)
	}

	tok, err := jwt.Parse(at.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("parse: %v valid=%v", err, tok != nil && tok.Valid)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if sub, _ := claims["sub"].(float64); uint64(sub) != 42 {
		t.Errorf("sub = %v, want 42", claims["sub"])
	}
	if claims["role"] != "agent" {
		t.Errorf("role = %v, want agent", claims["role"])
	}
	if tfa, _ := claims["tfa"].(bool); !tfa {
		t.Errorf("tfa = %v, want true", claims["tfa"])
	}
}

func TestNewAccessTokenRejectsWrongSecret(t *testing.T) {
	at, err := NewAccessToken("right-secret", 1, "buyer", false, 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	tok, err := jwt.Parse(at.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	})
	if err == nil && tok.Valid {
		t.Error("token validated with the wrong secret")
	}
}

func TestNewRefreshTokenUnique(t *testing.T) {
	a, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	b, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if a.Raw == b.Raw {
		t.Error("two refresh tokens are identical")
	}
	if len(a.Raw) != 96 { // 48 random bytes hex-encoded
		t.Errorf("len = %d, want 96", len(a.Raw))
	}
	if until := time.Until(a.Exp); until < 6*24*time.Hour || until > 8*24*time.Hour {
		t.Errorf("Exp %v not ~7 days away", a.Exp)
	}
}
