// Package session keeps a user's API key for the duration of one interactive
// session without persisting it. The browser holds a signed token naming the
// session; the key itself stays in process memory and expires with it.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents session token claims.
type Claims struct {
	SessionID uuid.UUID `json:"sid"`
	jwt.RegisteredClaims
}

// TokenService signs and validates session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a token service. Tokens expire after ttl.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// GenerateToken generates a token for the given session ID.
func (s *TokenService) GenerateToken(sessionID uuid.UUID) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)

	claims := &Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// ValidateToken validates a token and returns its claims.
func (s *TokenService) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: token string is empty", ErrInvalidToken)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("%w: invalid signature: %w", ErrInvalidToken, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: token expired: %w", ErrInvalidToken, err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: malformed token: %w", ErrInvalidToken, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.SessionID == uuid.Nil {
		return nil, fmt.Errorf("%w: token is not valid", ErrInvalidToken)
	}
	return claims, nil
}
