package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mcoot/musicbingo/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Game:
		o.printGame(v)
	case response.GameList:
		o.printGameList(v)
	case response.CardList:
		o.printCardList(v)
	case response.Stats:
		o.printStats(v)
	case response.Session:
		o.printSession(v)
	case response.SessionState:
		o.printSessionState(v)
	case response.Health:
		o.printHealth(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printGame(g response.Game) {
	o.printf("Game: %s (%s)\n", g.Name, g.ID)
	o.printf("Status: %s\n", g.Status)
	o.printf("Cards: %d\n", g.CardCount)
	o.printf("Artists: %d\n", len(g.Artists))
	if g.HasMarker {
		o.printf("Marker: yes\n")
	}
	o.printf("Created: %s\n", g.CreatedAt.Format("2006-01-02 15:04"))
}

func (o *Output) printGameList(l response.GameList) {
	if len(l.Games) == 0 {
		o.printf("No games\n")
		return
	}
	for _, g := range l.Games {
		o.printf("%s  %-30s %3d cards  %s\n", g.ID, g.Name, g.CardCount, g.Status)
	}
}

func (o *Output) printCardList(l response.CardList) {
	for i, c := range l.Cards {
		if i > 0 {
			o.printf("\n")
		}
		o.printf("Card #%d\n", c.Number)
		o.printGrid(c.Rows)
	}
}

func (o *Output) printGrid(rows [][]string) {
	width := 0
	for _, row := range rows {
		for _, cell := range row {
			width = max(width, len([]rune(cell)))
		}
	}
	for _, row := range rows {
		padded := make([]string, len(row))
		for i, cell := range row {
			padded[i] = cell + strings.Repeat(" ", width-len([]rune(cell)))
		}
		o.printf("| %s |\n", strings.Join(padded, " | "))
	}
}

func (o *Output) printStats(s response.Stats) {
	o.printf("Cards in play: %d\n", s.TotalCards)
	if len(s.Winners) > 0 {
		o.printf("BINGO: %s\n", joinCardNumbers(s.Winners))
	}
	if len(s.NearComplete) > 0 {
		o.printf("Close: %s\n", joinCardNumbers(s.NearComplete))
	}
	for _, c := range s.Cards {
		o.printf("  #%-4d %2d remaining\n", c.CardNumber, c.Remaining)
	}
}

func (o *Output) printSession(s response.Session) {
	o.printf("Session: %s (game %s)\n", s.ID, s.GameID)
	o.printf("Called (%d): %s\n", len(s.Called), strings.Join(s.Called, ", "))
	if len(s.Excluded) > 0 {
		o.printf("Excluded: %s\n", joinCardNumbers(s.Excluded))
	}
}

func (o *Output) printSessionState(s response.SessionState) {
	o.printSession(s.Session)
	o.printStats(s.Stats)
}

func (o *Output) printHealth(h response.Health) {
	o.printf("Status: %s\n", h.Status)
	o.printf("Storage: %s\n", h.Storage)
}

func joinCardNumbers(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = fmt.Sprintf("#%d", n)
	}
	return strings.Join(parts, ", ")
}
