package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/todoist/internal/server/handlers"
	"github.com/iudanet/todoist/internal/token"
)

// AuthMiddleware создает middleware для проверки сессионного токена
func AuthMiddleware(logger *slog.Logger, cfg token.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Извлекаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Missing Authorization header", "remote_addr", r.RemoteAddr)
				handlers.SendError(w, logger, "missing token", http.StatusUnauthorized)
				return
			}

			// Ожидаем формат: "Bearer <token>"
			scheme, tokenString, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
				// Сам заголовок не логируем: в нем может быть токен
				logger.Warn("Invalid Authorization header format", "remote_addr", r.RemoteAddr)
				handlers.SendError(w, logger, "invalid token format", http.StatusUnauthorized)
				return
			}

			claims, err := token.Parse(cfg, tokenString)
			if err != nil {
				logger.Warn("Invalid session token", "error", err)
				handlers.SendError(w, logger, "invalid token", http.StatusUnauthorized)
				return
			}

			logger.Debug("Client authenticated", "client", claims.Client, "target", claims.Target)

			next.ServeHTTP(w, r.WithContext(handlers.WithClaims(r.Context(), claims)))
		})
	}
}
