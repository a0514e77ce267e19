package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenService_IssueVerifyRoundTrip(t *testing.T) {
	svc := NewTokenService("secret")

	token, err := svc.Issue(1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}

	userID, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != 1 {
		t.Fatalf("expected userID 1, got %d", userID)
	}
}

func TestTokenService_RejectsTamperedSignature(t *testing.T) {
	svc := NewTokenService("secret")

	token, err := svc.Issue(1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Voltea un bit en la región de la firma.
	i := strings.LastIndex(token, ".") + 1
	sig := []byte(token[i:])
	sig[0] ^= 0x01
	tampered := token[:i] + string(sig)

	if _, err := svc.Verify(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for tampered token, got %v", err)
	}
}

func TestTokenService_RejectsExpiredToken(t *testing.T) {
	svc := NewTokenService("secret")
	now := time.Now().UTC()
	claims := SessionClaims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-1",
			Issuer:    "deepfake-guard",
			IssuedAt:  jwt.NewNumericDate(now.Add(-8 * 24 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := svc.Verify(signed); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenService_RejectsWrongIssuer(t *testing.T) {
	svc := NewTokenService("secret")
	now := time.Now().UTC()
	claims := SessionClaims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-1",
			Issuer:    "other-issuer",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := svc.Verify(signed); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for wrong issuer, got %v", err)
	}
}

func TestTokenService_RejectsMalformedToken(t *testing.T) {
	svc := NewTokenService("secret")

	if _, err := svc.Verify("not.a.jwt"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for malformed token, got %v", err)
	}
	if _, err := svc.Verify(""); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for empty token, got %v", err)
	}
}

func TestTokenService_RejectsEmptySecret(t *testing.T) {
	svc := NewTokenService("")

	if _, err := svc.Issue(1); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid on empty secret, got %v", err)
	}
}

func TestTokenService_VerifyFailsAfterRevoke(t *testing.T) {
	svc := NewTokenServiceWithStore("secret", NewMemoryRevokedTokenStore())

	token, err := svc.Issue(1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.Verify(token); err != nil {
		t.Fatalf("verify before revoke: %v", err)
	}

	if err := svc.Revoke(token); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := svc.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid after revoke, got %v", err)
	}
}

func TestTokenService_RevokeDoesNotAffectOtherTokens(t *testing.T) {
	svc := NewTokenServiceWithStore("secret", NewMemoryRevokedTokenStore())

	t1, err := svc.Issue(1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	t2, err := svc.Issue(2)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if err := svc.Revoke(t1); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	userID, err := svc.Verify(t2)
	if err != nil {
		t.Fatalf("verify unrevoked token: %v", err)
	}
	if userID != 2 {
		t.Fatalf("expected userID 2, got %d", userID)
	}
}
