package jwt

import (
	"errors"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"smp-portal/backend/config"
)

const (
	testSecret = "test-secret-key-for-unit-testing-2026"
	testIssuer = "smp-identity"
)

func newTestManager() *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret: testSecret,
		Issuer:    testIssuer,
	})
}

// mintToken signs a token the way the identity service would. The verifier
// side never mints, so tests build tokens directly.
func mintToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	signed, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

func validClaims() Claims {
	now := time.Now()
	return Claims{
		UserID:    "42",
		Role:      "supervisor",
		TokenType: "access",
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    testIssuer,
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestParseToken_Valid(t *testing.T) {
	m := newTestManager()
	token := mintToken(t, testSecret, validClaims())

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken should succeed: %v", err)
	}
	if claims.UserID != "42" {
		t.Errorf("expected user id 42, got %s", claims.UserID)
	}
	if claims.Role != "supervisor" {
		t.Errorf("expected role supervisor, got %s", claims.Role)
	}
	if claims.TokenType != "access" {
		t.Errorf("expected access token type, got %s", claims.TokenType)
	}
}

func TestParseToken_Expired(t *testing.T) {
	m := newTestManager()
	claims := validClaims()
	claims.IssuedAt = jwtv5.NewNumericDate(time.Now().Add(-2 * time.Hour))
	claims.ExpiresAt = jwtv5.NewNumericDate(time.Now().Add(-time.Hour))
	token := mintToken(t, testSecret, claims)

	_, err := m.ParseToken(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseToken_WrongIssuer(t *testing.T) {
	m := newTestManager()
	claims := validClaims()
	claims.Issuer = "some-other-service"
	token := mintToken(t, testSecret, claims)

	_, err := m.ParseToken(token)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	m := newTestManager()
	token := mintToken(t, "a-completely-different-secret", validClaims())

	_, err := m.ParseToken(token)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseToken_WrongSigningMethod(t *testing.T) {
	m := newTestManager()
	// alg "none" must never verify against an HMAC secret.
	unsigned, err := jwtv5.NewWithClaims(jwtv5.SigningMethodNone, validClaims()).
		SignedString(jwtv5.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build unsigned token: %v", err)
	}

	if _, err := m.ParseToken(unsigned); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseToken_Malformed(t *testing.T) {
	m := newTestManager()

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("ParseToken(%q) should fail with ErrTokenInvalid, got %v", token, err)
		}
	}
}

// The refresh/access split is enforced by the auth middleware off the
// TokenType claim, so parsing must surface it untouched.
func TestParseToken_ExposesTokenType(t *testing.T) {
	m := newTestManager()
	claims := validClaims()
	claims.TokenType = "refresh"
	token := mintToken(t, testSecret, claims)

	parsed, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken should succeed: %v", err)
	}
	if parsed.TokenType != "refresh" {
		t.Errorf("expected refresh token type, got %s", parsed.TokenType)
	}
}
