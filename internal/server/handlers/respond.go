package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/todoist/pkg/api"
)

// SendJSON отправляет JSON ответ
func SendJSON(w http.ResponseWriter, logger *slog.Logger, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

// SendError отправляет ошибку в формате api.ErrorResponse
func SendError(w http.ResponseWriter, logger *slog.Logger, message string, statusCode int) {
	resp := api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	SendJSON(w, logger, resp, statusCode)
}
