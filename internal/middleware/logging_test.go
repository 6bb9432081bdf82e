package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/musicbingo/internal/testutil"
)

func TestLogging_RecordsRequest(t *testing.T) {
	logger, buf := testutil.CaptureLogger()

	h := chimw.RequestID(Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/games", nil))

	entries := testutil.LogEntries(t, buf)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, "http request", entry["msg"])
	assert.Equal(t, "/games", entry["path"])
	assert.EqualValues(t, http.StatusTeapot, entry["status"])
	assert.EqualValues(t, len("short and stout"), entry["size"])
	assert.NotEmpty(t, entry["request_id"])
}

func TestRecovery_CallsHandler(t *testing.T) {
	logger, buf := testutil.CaptureLogger()

	h := chimw.RequestID(Recovery(logger, DefaultPanicHandler)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	entries := testutil.LogEntries(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "panic recovered", entries[0]["msg"])
	assert.Equal(t, "boom", entries[0]["error"])
	assert.NotEmpty(t, entries[0]["request_id"])
}

func TestRecovery_ReraisesAbort(t *testing.T) {
	h := Recovery(testutil.NopLogger(), DefaultPanicHandler)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
