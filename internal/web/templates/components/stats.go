package components

import (
	"strconv"
	"strings"

	"github.com/mcoot/musicbingo/internal/model"
)

// StatsBoardID is the element id the stats board is swapped into
const StatsBoardID = "stats-board"

func cardList(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = "#" + strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

func isNear(c model.CardStat) bool {
	return !c.IsComplete && c.Remaining <= model.NearCompleteThreshold
}
