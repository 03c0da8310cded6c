package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pageza/dietplan/backend/internal/types"
)

const defaultTokenTTL = 24 * time.Hour

// TokenService signs and validates contributor tokens
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a new TokenService instance
func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    defaultTokenTTL,
	}
}

// GenerateToken signs claims with HS256, filling in the issue and expiry times when unset
func (s *TokenService) GenerateToken(claims *types.TokenClaims) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("jwt secret is not configured")
	}
	if claims.UserID == uuid.Nil {
		return "", fmt.Errorf("token claims require a user id")
	}

	now := time.Now()
	if claims.IssuedAt == nil {
		claims.IssuedAt = jwt.NewNumericDate(now)
	}
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}
	if claims.Subject == "" {
		claims.Subject = claims.UserID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses and verifies a signed token
func (s *TokenService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	if len(s.secret) == 0 {
		return nil, ErrInvalidToken
	}

	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
