package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/todoist/pkg/api"
)

func TestRecoveryMiddleware(t *testing.T) {
	var buf bytes.Buffer
	h := RecoveryMiddleware(bufferLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something broke")
	}))

	w := serve(h, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp api.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "internal error", resp.Message)
	assert.NotContains(t, w.Body.String(), "something broke")

	assert.Contains(t, buf.String(), "Panic recovered")
	assert.Contains(t, buf.String(), "something broke")
	assert.Contains(t, buf.String(), "stack=")
}

func TestRecoveryMiddleware_NoPanic(t *testing.T) {
	h := RecoveryMiddleware(setupTestLogger())(http.HandlerFunc(okHandler))
	w := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestRecoveryMiddleware_AbortHandler(t *testing.T) {
	h := RecoveryMiddleware(setupTestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
