package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/todoist/pkg/api"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newEchoServer поднимает тестовый сервер, который отвечает LOCATION_RETURN на каждую инструкцию
func newEchoServer(t *testing.T, check func(r *http.Request)) *httptest.Server {
	upgrader := websocket.Upgrader{}
	mux := http.NewServeMux()
	mux.HandleFunc(api.PathSession, func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var ins api.Instruction
			if err := json.Unmarshal(data, &ins); err != nil {
				return
			}
			reply := api.NewInstruction(api.OpLocationReturn, ins.Requestor, 42)
			out, _ := json.Marshal(reply)
			if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
				return
			}
		}
	})
	mux.HandleFunc(api.PathHealth, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.HealthResponse{Status: "ok", Version: "test", Sessions: 2})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// TestNewClient проверяет создание нового клиента
func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/", testLogger())

	assert.NotNil(t, client)
	assert.Equal(t, "http://localhost:8080", client.baseURL)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
	assert.NotNil(t, client.dialer)
}

func TestClient_SessionURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		opts    SessionOptions
		want    string
		wantErr bool
	}{
		{
			name:    "http becomes ws",
			baseURL: "http://localhost:8080",
			opts:    SessionOptions{},
			want:    "ws://localhost:8080/api/v1/session",
		},
		{
			name:    "https becomes wss with target",
			baseURL: "https://example.com",
			opts:    SessionOptions{Target: "main", Title: "To-do list"},
			want:    "wss://example.com/api/v1/session?target=main&title=To-do+list",
		},
		{
			name:    "unsupported scheme",
			baseURL: "ftp://example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(tt.baseURL, testLogger())
			got, err := client.sessionURL(tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_Health(t *testing.T) {
	server := newEchoServer(t, nil)
	client := NewClient(server.URL, testLogger())

	resp, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Sessions)
}

func TestClient_HealthServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "database unavailable"})
	}))
	defer server.Close()

	client := NewClient(server.URL, testLogger())
	_, err := client.Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database unavailable")
}

func TestClient_OpenSessionRoundTrip(t *testing.T) {
	server := newEchoServer(t, func(r *http.Request) {
		assert.Equal(t, "Bearer signed-token", r.Header.Get("Authorization"))
		assert.Equal(t, "main", r.URL.Query().Get(api.QueryTarget))
	})
	client := NewClient(server.URL, testLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	session, err := client.OpenSession(ctx, SessionOptions{Target: "main", Token: "signed-token"})
	require.NoError(t, err)
	defer func() {
		_ = session.Close()
	}()

	err = session.Send(ctx, api.NewInstruction(api.OpGetByID, 77, api.Body, "entryDivID1"))
	require.NoError(t, err)

	reply, err := session.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, api.OpLocationReturn, reply.Opcode)
	assert.Equal(t, api.Requestor(77), reply.Requestor)
	assert.Equal(t, api.Location(42), reply.Location)
}

func TestClient_OpenSessionRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Unauthorized: missing token", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, testLogger())
	_, err := client.OpenSession(context.Background(), SessionOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionRejected)
	assert.Contains(t, err.Error(), "401")
}

func TestSession_ReceiveAfterClose(t *testing.T) {
	server := newEchoServer(t, nil)
	client := NewClient(server.URL, testLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	session, err := client.OpenSession(ctx, SessionOptions{})
	require.NoError(t, err)
	require.NoError(t, session.Close())

	// Повторный Close не должен падать
	assert.NoError(t, session.Close())

	_, err = session.Receive(ctx)
	assert.ErrorIs(t, err, ErrClosed)

	err = session.Send(ctx, api.NewInstruction(api.OpDelete, 0, 1))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSession_ReceiveContextCanceled(t *testing.T) {
	server := newEchoServer(t, nil)
	client := NewClient(server.URL, testLogger())

	session, err := client.OpenSession(context.Background(), SessionOptions{})
	require.NoError(t, err)
	defer func() {
		_ = session.Close()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = session.Receive(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
