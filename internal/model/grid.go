package model

import (
	"sort"
	"strings"

	"github.com/enescakir/emoji"
)

const (
	GridSize  = 6                   // Rows and columns on a card
	GridCells = GridSize * GridSize // Cells on a card
)

// identitySeparator joins names in an identity key. Artist names may contain
// commas, so a control character is used instead.
const identitySeparator = "\x1f"

var (
	markerPrefix = emoji.RedHeart.String() + " "
	markerSuffix = " " + emoji.RedHeart.String()
)

// Cell is one square of a grid. The heart marker is presentation only and
// never takes part in identity or stats comparisons.
type Cell struct {
	Name   string `json:"name"`
	Marked bool   `json:"marked,omitempty"`
}

// Display returns the text printed on the card, including the heart decoration
func (c Cell) Display() string {
	if !c.Marked {
		return c.Name
	}
	return markerPrefix + c.Name + markerSuffix
}

// ParseCell reads a displayed cell back into its structured form
func ParseCell(s string) Cell {
	clean := StripMarker(s)
	return Cell{Name: clean, Marked: clean != s}
}

// StripMarker removes every heart decoration from s. Undecorated names are
// returned unchanged.
func StripMarker(s string) string {
	if !strings.Contains(s, emoji.RedHeart.String()) {
		return s
	}
	s = strings.ReplaceAll(s, markerPrefix, "")
	return strings.ReplaceAll(s, markerSuffix, "")
}

// Grid is the row-major 6x6 face of a card
type Grid []Cell

// NewGrid builds an unmarked grid from names
func NewGrid(names []string) Grid {
	g := make(Grid, len(names))
	for i, n := range names {
		g[i] = Cell{Name: n}
	}
	return g
}

// ParseGrid builds a grid from displayed strings, recovering marker placement
func ParseGrid(cells []string) Grid {
	g := make(Grid, len(cells))
	for i, c := range cells {
		g[i] = ParseCell(c)
	}
	return g
}

// Names returns the clean artist names in cell order
func (g Grid) Names() []string {
	names := make([]string, len(g))
	for i, c := range g {
		names[i] = c.Name
	}
	return names
}

// DisplayNames returns the decorated text of every cell
func (g Grid) DisplayNames() []string {
	names := make([]string, len(g))
	for i, c := range g {
		names[i] = c.Display()
	}
	return names
}

// IdentityKey is the canonical form used for uniqueness: the sorted multiset
// of clean names. Cell order and marker placement do not affect it.
func (g Grid) IdentityKey() string {
	return IdentityKey(g.Names())
}

// IdentityKey sorts a copy of names and joins them into a comparable key
func IdentityKey(names []string) string {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)
	return strings.Join(sorted, identitySeparator)
}

// MarkerPosition returns the index of the marked cell, or -1
func (g Grid) MarkerPosition() int {
	for i, c := range g {
		if c.Marked {
			return i
		}
	}
	return -1
}

// Row returns the cells of a 0-indexed row
func (g Grid) Row(row int) []Cell {
	if row < 0 || row >= GridSize || len(g) != GridCells {
		return nil
	}
	return g[row*GridSize : (row+1)*GridSize]
}

// Clone returns a deep copy of the grid
func (g Grid) Clone() Grid {
	c := make(Grid, len(g))
	copy(c, g)
	return c
}
