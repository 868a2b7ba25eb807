package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dukerupert/sif/internal/domain"
)

// TokenManager mints and verifies the HS256 tokens that carry the
// authenticated principal. The token subject is the opaque principal id the
// cart subsystem keys ownership on.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenManager creates a TokenManager. ttl defaults to 24h when zero.
func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}

	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Mint issues a signed token for the user.
func (m *TokenManager) Mint(user *domain.User) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify parses and validates a token, returning the principal it carries.
func (m *TokenManager) Verify(tokenString string) (*domain.User, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid || c.Subject == "" {
		return nil, fmt.Errorf("invalid token: missing subject")
	}

	return &domain.User{
		ID:    c.Subject,
		Email: c.Email,
	}, nil
}
