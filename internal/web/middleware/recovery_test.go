package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/musicbingo/internal/testutil"
)

func TestRecovery_RendersErrorPage(t *testing.T) {
	h := Recovery(testutil.NopLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("template exploded")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/games/abc", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "Internal Server Error", doc.Find("h1").Text())
	assert.Equal(t, 1, doc.Find(".flash.flash-error").Length())
	href, _ := doc.Find("main a").Attr("href")
	assert.Equal(t, "/", href)
	assert.NotContains(t, rec.Body.String(), "template exploded")
}
