package layout

import (
	"bytes"
	"context"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, data PageData) (*goquery.Document, string) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Base(data, ServerError()).Render(context.Background(), &buf))
	html := buf.String()
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc, html
}

func TestBase_Title(t *testing.T) {
	doc, html := render(t, PageData{})
	assert.Equal(t, "Music Bingo", doc.Find("title").Text())
	assert.Contains(t, html, "<!doctype html>")

	doc, _ = render(t, PageData{Title: "Friday"})
	assert.Equal(t, "Friday | Music Bingo", doc.Find("title").Text())
}

func TestBase_FlashIsEscaped(t *testing.T) {
	doc, _ := render(t, PageData{Flash: &FlashMessage{Type: "error", Message: `<script>alert("x")</script>`}})

	flash := doc.Find("main .flash")
	require.Equal(t, 1, flash.Length())
	assert.True(t, flash.HasClass("flash-error"))
	assert.Equal(t, `<script>alert("x")</script>`, flash.Text())
	assert.Equal(t, 0, doc.Find("main script").Length())
}

func TestBase_NoFlash(t *testing.T) {
	doc, _ := render(t, PageData{})
	assert.Equal(t, 0, doc.Find(".flash").Length())
	assert.Equal(t, "Internal Server Error", doc.Find("main h1").Text())
}
