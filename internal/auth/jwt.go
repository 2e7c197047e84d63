// Package auth implements bearer token issuance and validation.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the authenticated principal inside a signed token.
type Claims struct {
	UserID    uint64 `json:"user_id"`
	Username  string `json:"username"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenMaker generates and parses signed tokens.
type TokenMaker interface {
	// GenerateTokenPair returns an access token and a refresh token for a user.
	GenerateTokenPair(userID uint64, username string) (access string, refresh string, err error)

	// ParseToken validates a token of the expected type and returns its claims.
	ParseToken(tokenStr, expectedType string) (*Claims, error)
}

// JWTMaker signs HS256 tokens with a shared secret.
type JWTMaker struct {
	secretKey  string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTMaker creates a JWTMaker.
func NewJWTMaker(secretKey string, accessTTL, refreshTTL time.Duration) *JWTMaker {
	return &JWTMaker{
		secretKey:  secretKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// GenerateTokenPair returns a signed access/refresh token pair.
func (m *JWTMaker) GenerateTokenPair(userID uint64, username string) (string, string, error) {
	access, err := m.generate(userID, username, TokenTypeAccess, m.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err := m.generate(userID, username, TokenTypeRefresh, m.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (m *JWTMaker) generate(userID uint64, username, tokenType string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID:    userID,
		Username:  username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secretKey))
}

// ParseToken validates the signature, expiry, and token type.
func (m *JWTMaker) ParseToken(tokenStr, expectedType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(m.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != expectedType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
