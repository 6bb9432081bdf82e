package components

import (
	"strconv"
	"strings"

	"github.com/mcoot/musicbingo/internal/model"
)

const defaultCardCount = 30

// CreateGameValues are the create form's field values, echoed back after a
// failed submission
type CreateGameValues struct {
	Name      string
	CardCount int
	Artists   string
	HasMarker bool
}

func (v CreateGameValues) count() int {
	if v.CardCount < 1 {
		return defaultCardCount
	}
	return v.CardCount
}

func cardPNG(card model.Card) string {
	return "/api/v1/games/" + string(card.GameID) + "/cards/" + strconv.Itoa(card.Number) + ".png"
}

func sessionURL(id model.SessionID, action string) string {
	u := "/sessions/" + string(id)
	if action != "" {
		u += "/" + action
	}
	return u
}

func excludedList(excluded []int) string {
	nums := make([]string, len(excluded))
	for i, n := range excluded {
		nums[i] = strconv.Itoa(n)
	}
	return strings.Join(nums, ", ")
}
