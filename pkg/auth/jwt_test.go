package auth

import (
	"testing"
	"time"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	token, err := NewAccessToken(42, "someone", "someone@example.com", "business", "secret", time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	claims, err := Parse(token, "secret")
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}

	if claims.Sub != 42 || claims.Username != "someone" || claims.Role != "business" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	token, err := NewAccessToken(1, "u", "u@example.com", "customer", "secret", time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	if _, err := Parse(token, "other-secret"); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestParse_Expired(t *testing.T) {
	token, err := NewAccessToken(1, "u", "u@example.com", "customer", "secret", -time.Minute)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	if _, err := Parse(token, "secret"); err == nil {
		t.Fatal("expected expiry error")
	}
}
