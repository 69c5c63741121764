package utils

import "testing"

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  User@Example.COM "); got != "user@example.com" {
		t.Fatalf("got %q", got)
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@example.com", " USER@domain.org ", "first.last@sub.domain.de"}
	for _, e := range valid {
		if !IsValidEmail(e) {
			t.Fatalf("expected %q to be valid", e)
		}
	}

	invalid := []string{"", "plain", "a@b", "two@@example.com", "@example.com", "user@nodot"}
	for _, e := range invalid {
		if IsValidEmail(e) {
			t.Fatalf("expected %q to be invalid", e)
		}
	}
}
