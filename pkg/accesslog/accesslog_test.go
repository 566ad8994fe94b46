package accesslog

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/KretovDmitry/atm/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	l, recorded := logger.NewForTest()

	var seenID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID, _ = logger.RequestID(r.Context())
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte("test"))
	})

	r := httptest.NewRequest(http.MethodPost, "http://127.0.0.1:8080/api/atm/withdraw", nil)
	r.Header.Set(RequestIDHeader, "req-1")
	w := httptest.NewRecorder()

	Handler(l)(next).ServeHTTP(w, r)

	assert.Equal(t, "req-1", seenID)
	assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))

	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "POST /api/atm/withdraw HTTP/1.1 402 4")
	assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
}

func TestHandlerGeneratesRequestID(t *testing.T) {
	l, _ := logger.NewForTest()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	r := httptest.NewRequest(http.MethodGet, "/api/atm/balance", nil)
	w := httptest.NewRecorder()

	Handler(l)(next).ServeHTTP(w, r)

	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}
