package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/musicbingo/internal/api/apierr"
	"github.com/mcoot/musicbingo/internal/testutil"
)

func TestRecovery_WritesEnvelopeWithRequestID(t *testing.T) {
	logger, buf := testutil.CaptureLogger()
	h := chimw.RequestID(Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("stats exploded")
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/games", nil)
	req.Header.Set(chimw.RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body apierr.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, apierr.CodeInternalError, body.Error.Code)
	assert.Equal(t, "Internal server error (request req-42)", body.Error.Message)

	entries := testutil.LogEntries(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "req-42", entries[0]["request_id"])
}

func TestRecovery_WithoutRequestID(t *testing.T) {
	h := Recovery(testutil.NopLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	var body apierr.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Internal server error", body.Error.Message)
}
