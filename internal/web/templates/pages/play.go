package pages

import (
	"github.com/mcoot/musicbingo/internal/model"
	"github.com/mcoot/musicbingo/internal/web/templates/layout"
)

// PlayData holds data for the live play page
type PlayData struct {
	layout.PageData
	Game    *model.Game
	Session *model.PlaySession
	Stats   model.StatsSnapshot
}

func sessionURL(s *model.PlaySession, action string) string {
	return "/sessions/" + string(s.ID) + "/" + action
}
