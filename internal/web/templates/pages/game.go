package pages

import (
	"fmt"

	"github.com/mcoot/musicbingo/internal/model"
	"github.com/mcoot/musicbingo/internal/web/templates/layout"
)

// GameData holds data for a game page
type GameData struct {
	layout.PageData
	Game     *model.Game
	Cards    []model.Card
	Sessions []*model.PlaySession
}

func gameURL(g *model.Game, action string) string {
	u := "/games/" + string(g.ID)
	if action != "" {
		u += "/" + action
	}
	return u
}

func gameMeta(g *model.Game) string {
	s := fmt.Sprintf("%d cards from %d artists", g.CardCount, len(g.Artists))
	if g.HasMarker {
		s += ", heart marker"
	}
	return s
}
