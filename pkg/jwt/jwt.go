package jwt

import (
	"errors"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"smp-portal/backend/config"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims are the token claims issued by the identity service.
type Claims struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role"` // "manager" | "supervisor" | "worker"
	TokenType string `json:"token_type"`
	jwtv5.RegisteredClaims
}

// Manager verifies access tokens. Token issuance lives in the identity
// service; this backend never mints tokens.
type Manager struct {
	secret []byte
	issuer string
}

// NewManager creates a token verifier.
func NewManager(cfg *config.AuthConfig) *Manager {
	return &Manager{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
	}
}

// ParseToken verifies signature, expiry and issuer, and returns the claims.
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	}, jwtv5.WithIssuer(m.issuer))
	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
