package auth

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/spec-kit/access-control-api/internal/domain"
)

func newTestManager(t *testing.T, secret, algorithm string, ttlMinutes int) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager(secret, algorithm, ttlMinutes)
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}
	return tm
}

func TestNewTokenManager_Config(t *testing.T) {
	if _, err := NewTokenManager("", "HS256", 30); err == nil {
		t.Error("empty secret should be rejected")
	}
	if _, err := NewTokenManager("secret", "HS999", 30); err == nil {
		t.Error("unknown algorithm should be rejected")
	}
	if _, err := NewTokenManager("secret", "RS256", 30); err == nil {
		t.Error("asymmetric algorithm should be rejected")
	}
	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		if _, err := NewTokenManager("secret", alg, 30); err != nil {
			t.Errorf("NewTokenManager(%q) error = %v", alg, err)
		}
	}
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	tm := newTestManager(t, "test-secret", "HS256", 30)

	token, expiresAt, err := tm.Issue("alice", domain.RoleUser)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned empty token")
	}
	if expiresAt.IsZero() {
		t.Fatal("Issue() returned zero expiry")
	}

	claims, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.Subject != "alice" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "alice")
	}
	if claims.Role != domain.RoleUser {
		t.Errorf("Role = %q, want %q", claims.Role, domain.RoleUser)
	}

	// Verification is side-effect free: a second verify must succeed.
	if _, err := tm.Verify(token); err != nil {
		t.Errorf("second Verify() error = %v", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	tm := newTestManager(t, "test-secret", "HS256", -1)

	token, _, err := tm.Issue("alice", domain.RoleUser)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = tm.Verify(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Verify() error = %v, want ErrTokenExpired", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := newTestManager(t, "correct-secret", "HS256", 30)
	verifier := newTestManager(t, "other-secret", "HS256", 30)

	token, _, err := issuer.Issue("alice", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = verifier.Verify(token)
	if !errors.Is(err, ErrTokenBadSignature) {
		t.Errorf("Verify() error = %v, want ErrTokenBadSignature", err)
	}
}

func TestVerify_TamperedSignature(t *testing.T) {
	tm := newTestManager(t, "test-secret", "HS256", 30)

	token, _, err := tm.Issue("alice", domain.RoleUser)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// Flip a character in the middle of the signature segment.
	dot := strings.LastIndexByte(token, '.')
	pos := dot + 1 + (len(token)-dot-1)/2
	flipped := byte('A')
	if token[pos] == 'A' {
		flipped = 'B'
	}
	tampered := token[:pos] + string(flipped) + token[pos+1:]

	if _, err := tm.Verify(tampered); err == nil {
		t.Fatal("Verify() should reject a tampered token")
	} else if !errors.Is(err, ErrTokenBadSignature) && !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("Verify() error = %v, want bad-signature or malformed", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	tm := newTestManager(t, "test-secret", "HS256", 30)

	for _, token := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		if _, err := tm.Verify(token); !errors.Is(err, ErrTokenMalformed) {
			t.Errorf("Verify(%q) error = %v, want ErrTokenMalformed", token, err)
		}
	}
}

func TestVerify_AlgorithmMismatch(t *testing.T) {
	issuer := newTestManager(t, "shared-secret", "HS512", 30)
	verifier := newTestManager(t, "shared-secret", "HS256", 30)

	token, _, err := issuer.Issue("alice", domain.RoleUser)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = verifier.Verify(token)
	if !errors.Is(err, ErrTokenBadSignature) {
		t.Errorf("Verify() error = %v, want ErrTokenBadSignature", err)
	}
}

func TestVerify_NoneAlgorithm(t *testing.T) {
	tm := newTestManager(t, "test-secret", "HS256", 30)

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"alice","role":"user","exp":9999999999}`))
	token := header + "." + payload + "."

	if _, err := tm.Verify(token); err == nil {
		t.Fatal("Verify() must never accept an unsigned token")
	}
}

func TestVerify_MissingRole(t *testing.T) {
	tm := newTestManager(t, "test-secret", "HS256", 30)

	// Signed correctly but the role claim is empty: structurally invalid
	// for this system.
	token, _, err := tm.Issue("alice", domain.Role(""))
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := tm.Verify(token); !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("Verify() error = %v, want ErrTokenMalformed", err)
	}
}
