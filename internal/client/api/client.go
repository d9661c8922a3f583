package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iudanet/todoist/pkg/api"
)

// ClientAPI определяет операции клиента с сервером рендеринга
type ClientAPI interface {
	Health(ctx context.Context) (*api.HealthResponse, error)
	OpenSession(ctx context.Context, opts SessionOptions) (*Session, error)
}

// SessionOptions описывает параметры открытия сессии
type SessionOptions struct {
	Target string // имя целевого фрейма, пустое имя означает новый фрейм верхнего уровня
	Title  string // заголовок фрейма
	Token  string // подписанный JWT для заголовка Authorization
}

// Client представляет клиент для взаимодействия с сервером рендеринга
type Client struct {
	httpClient *http.Client
	dialer     *websocket.Dialer
	logger     *slog.Logger
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

// Health запрашивает состояние сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, api.PathHealth, nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

// OpenSession открывает websocket сессию с сервером
func (c *Client) OpenSession(ctx context.Context, opts SessionOptions) (*Session, error) {
	sessionURL, err := c.sessionURL(opts)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	if opts.Token != "" {
		header.Set("Authorization", "Bearer "+opts.Token)
	}

	conn, resp, err := c.dialer.DialContext(ctx, sessionURL, header)
	if err != nil {
		if resp != nil {
			defer func() {
				_ = resp.Body.Close()
			}()
			body, _ := io.ReadAll(resp.Body)
			return nil, fmt.Errorf("%w (%d): %s", ErrSessionRejected, resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return nil, fmt.Errorf("failed to dial session: %w", err)
	}

	c.logger.Info("Session opened", "target", opts.Target, "title", opts.Title)
	return newSession(conn, c.logger), nil
}

// sessionURL строит ws:// адрес сессии из базового http:// адреса
func (c *Client) sessionURL(opts SessionOptions) (string, error) {
	u, err := url.Parse(c.baseURL + api.PathSession)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported server URL scheme: %q", u.Scheme)
	}

	q := u.Query()
	if opts.Target != "" {
		q.Set(api.QueryTarget, opts.Target)
	}
	if opts.Title != "" {
		q.Set(api.QueryTitle, opts.Title)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}) error {
	reqURL := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, errResp.Error)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
