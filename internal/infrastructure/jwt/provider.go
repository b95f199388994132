package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload a database webhook presents. Role mirrors the
// Supabase convention of a "role" claim such as "service_role".
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 webhook tokens with a shared secret.
type Provider struct {
	secret []byte
}

func NewProvider(secret string) (*Provider, error) {
	if secret == "" {
		return nil, errors.New("webhook JWT secret is empty")
	}
	return &Provider{secret: []byte(secret)}, nil
}

// Sign mints a token for configuring the webhook's Authorization header.
// A zero ttl produces a token without expiry.
func (p *Provider) Sign(subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  subject,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign webhook token: %w", err)
	}
	return s, nil
}

func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
