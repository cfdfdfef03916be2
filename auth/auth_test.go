// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"testing"
	"time"
)

func TestGenerateID(t *testing.T) {
	id1, err := GenerateID(16)
	if err != nil {
		t.Fatalf("GenerateID failed: %v", err)
	}
	if len(id1) != 32 { // 16 bytes = 32 hex chars
		t.Errorf("Expected 32 hex chars, got %d", len(id1))
	}

	id2, err := GenerateID(16)
	if err != nil {
		t.Fatalf("GenerateID failed: %v", err)
	}
	if id1 == id2 {
		t.Error("Two generated IDs should not collide")
	}
}

func TestNewAnonToken(t *testing.T) {
	tok1 := NewAnonToken()
	tok2 := NewAnonToken()
	if tok1 == "" || tok2 == "" {
		t.Fatal("Expected non-empty anon tokens")
	}
	if tok1 == tok2 {
		t.Error("Two anon tokens should not collide")
	}
}

func TestValidateAdminKey(t *testing.T) {
	tests := []struct {
		name     string
		provided string
		expected string
		wantErr  bool
	}{
		{"matching key", "secret-admin-key", "secret-admin-key", false},
		{"wrong key", "wrong", "secret-admin-key", true},
		{"empty provided", "", "secret-admin-key", true},
		{"empty configured", "anything", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAdminKey(tt.provided, tt.expected)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAdminKey() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestVerificationTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	token, err := issuer.VerificationToken("voter.sias22@krea.ac.in", time.Hour)
	if err != nil {
		t.Fatalf("VerificationToken failed: %v", err)
	}

	email, err := issuer.ParseVerificationToken(token)
	if err != nil {
		t.Fatalf("ParseVerificationToken failed: %v", err)
	}
	if email != "voter.sias22@krea.ac.in" {
		t.Errorf("Expected original email back, got %q", email)
	}
}

func TestVerificationTokenExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	token, err := issuer.VerificationToken("voter.sias22@krea.ac.in", -time.Minute)
	if err != nil {
		t.Fatalf("VerificationToken failed: %v", err)
	}

	if _, err := issuer.ParseVerificationToken(token); err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenAudienceSeparation(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	// A verification token must not be accepted as a session token
	token, err := issuer.VerificationToken("voter.sias22@krea.ac.in", time.Hour)
	if err != nil {
		t.Fatalf("VerificationToken failed: %v", err)
	}
	if _, err := issuer.ParseSessionToken(token); err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken for wrong audience, got %v", err)
	}

	// And the other way around
	session, err := issuer.SessionToken("voter-id-1", 30*time.Minute)
	if err != nil {
		t.Fatalf("SessionToken failed: %v", err)
	}
	if _, err := issuer.ParseVerificationToken(session); err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken for wrong audience, got %v", err)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	other := NewTokenIssuer("other-secret")

	token, err := issuer.VerificationToken("voter.sias22@krea.ac.in", time.Hour)
	if err != nil {
		t.Fatalf("VerificationToken failed: %v", err)
	}
	if _, err := other.ParseVerificationToken(token); err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken for wrong secret, got %v", err)
	}
}
