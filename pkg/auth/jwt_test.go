package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/transitx/marketplace/pkg/auth"
)

func TestVerifyRoundTrip(t *testing.T) {
	verifier := auth.NewJWTVerifier("secret")

	tok, err := auth.NewToken("user@example.com", "User", "secret", time.Hour)
	if err != nil {
		t.Fatalf("NewToken() error = %v", err)
	}

	claims, err := verifier.Verify(context.Background(), tok)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("email = %q", claims.Email)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	verifier := auth.NewJWTVerifier("secret")

	tok, err := auth.NewToken("user@example.com", "", "secret", -time.Minute)
	if err != nil {
		t.Fatalf("NewToken() error = %v", err)
	}

	if _, err := verifier.Verify(context.Background(), tok); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	verifier := auth.NewJWTVerifier("secret")

	tok, err := auth.NewToken("user@example.com", "", "other-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewToken() error = %v", err)
	}

	if _, err := verifier.Verify(context.Background(), tok); err == nil {
		t.Fatal("expected wrong-secret token to fail")
	}
}

func TestVerifyRejectsMissingEmail(t *testing.T) {
	verifier := auth.NewJWTVerifier("secret")

	tok, err := auth.NewToken("", "", "secret", time.Hour)
	if err != nil {
		t.Fatalf("NewToken() error = %v", err)
	}

	if _, err := verifier.Verify(context.Background(), tok); err == nil {
		t.Fatal("expected token without email claim to fail")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	verifier := auth.NewJWTVerifier("secret")

	if _, err := verifier.Verify(context.Background(), "not-a-token"); err == nil {
		t.Fatal("expected malformed token to fail")
	}
}
