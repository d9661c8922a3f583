// Package token issues and verifies the signed tokens that open render sessions.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is the iss claim of every session token
const Issuer = "todoist"

// DefaultTTL is how long a session token may be used to open a session
const DefaultTTL = 5 * time.Minute

// ErrInvalidToken indicates a token that failed verification
var ErrInvalidToken = errors.New("invalid session token")

// Claims представляет JWT claims сессии
type Claims struct {
	Client string `json:"client"` // имя клиента, только для логов и консоли
	Target string `json:"target"` // фрейм, на который выдан токен
	jwt.RegisteredClaims
}

// Config содержит ключ подписи и время жизни токена
type Config struct {
	Secret []byte
	TTL    time.Duration
}

// Issue creates a signed HS256 session token
func Issue(cfg Config, client, target string) (string, error) {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()

	claims := Claims{
		Client: client,
		Target: target,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    Issuer,
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies a session token and returns its claims
func Parse(cfg Config, tokenString string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Проверяем что используется правильный алгоритм подписи
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return cfg.Secret, nil
	}, jwt.WithIssuer(Issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims, ok := t.Claims.(*Claims); ok && t.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
