package handlers

import (
	"context"

	"github.com/iudanet/todoist/internal/token"
)

// contextKey тип для ключей контекста
type contextKey string

// ClaimsKey ключ для хранения claims сессионного токена в контексте
const ClaimsKey contextKey = "session_claims"

// WithClaims returns a context carrying verified token claims
func WithClaims(ctx context.Context, claims *token.Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// GetClaims извлекает claims из контекста
func GetClaims(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*token.Claims)
	return claims, ok && claims != nil
}
