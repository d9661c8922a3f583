package api

// Пути HTTP API сервера рендеринга
const (
	PathHealth  = "/api/v1/health"
	PathSession = "/api/v1/session"
)

// Query параметры открытия сессии
const (
	QueryTarget = "target" // имя целевого фрейма; пустое имя означает новый фрейм верхнего уровня
	QueryTitle  = "title"  // заголовок фрейма
)

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version,omitempty"`
	Sessions int    `json:"sessions"` // количество открытых сессий
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
