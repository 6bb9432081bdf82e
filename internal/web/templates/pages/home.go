package pages

import (
	"github.com/mcoot/musicbingo/internal/model"
	"github.com/mcoot/musicbingo/internal/web/templates/components"
	"github.com/mcoot/musicbingo/internal/web/templates/layout"
)

// HomeData holds data for the home page
type HomeData struct {
	layout.PageData
	Games []*model.Game
	Form  components.CreateGameValues
}
