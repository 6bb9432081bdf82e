//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate -path ..

package layout

// FlashMessage is a one-shot notice carried across a redirect
type FlashMessage struct {
	Type    string // "success", "error" or "info"
	Message string
}

// PageData holds data shared by every page
type PageData struct {
	Title string
	Flash *FlashMessage
}

func pageTitle(title string) string {
	if title == "" {
		return "Music Bingo"
	}
	return title + " | Music Bingo"
}
