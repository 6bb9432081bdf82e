package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("Artist %02d", i)
	}
	return names
}

func TestCellDisplayRoundTrip(t *testing.T) {
	tests := []Cell{
		{Name: "Queen"},
		{Name: "Queen", Marked: true},
		{Name: "Earth, Wind & Fire", Marked: true},
		{Name: "  spaced  "},
	}

	for _, c := range tests {
		t.Run(c.Name, func(t *testing.T) {
			assert.Equal(t, c, ParseCell(c.Display()))
		})
	}
}

func TestMarkedDisplayMatchesLegacyFormat(t *testing.T) {
	c := Cell{Name: "ABBA", Marked: true}
	assert.Equal(t, "❤️ ABBA ❤️", c.Display())
}

func TestStripMarkerIsIdempotent(t *testing.T) {
	assert.Equal(t, "ABBA", StripMarker("ABBA"))
	assert.Equal(t, "ABBA", StripMarker(StripMarker("❤️ ABBA ❤️")))
	assert.Equal(t, "ABBA", StripMarker("❤️ ABBA"))
}

func TestIdentityKeyIgnoresOrderAndMarker(t *testing.T) {
	names := testNames(GridCells)
	a := NewGrid(names)

	reversed := make([]string, len(names))
	for i, n := range names {
		reversed[len(names)-1-i] = n
	}
	b := NewGrid(reversed)
	b[4].Marked = true

	assert.Equal(t, a.IdentityKey(), b.IdentityKey())
}

func TestIdentityKeyDistinguishesCommaNames(t *testing.T) {
	a := IdentityKey([]string{"A,B", "C"})
	b := IdentityKey([]string{"A", "B,C"})
	assert.NotEqual(t, a, b)
}

func TestIdentityKeyDoesNotMutateInput(t *testing.T) {
	names := []string{"b", "a", "c"}
	_ = IdentityKey(names)
	assert.Equal(t, []string{"b", "a", "c"}, names)
}

func TestMarkerPosition(t *testing.T) {
	g := NewGrid(testNames(GridCells))
	assert.Equal(t, -1, g.MarkerPosition())

	g[17].Marked = true
	assert.Equal(t, 17, g.MarkerPosition())
	assert.Equal(t, g.Names(), ParseGrid(g.DisplayNames()).Names())
	assert.Equal(t, 17, ParseGrid(g.DisplayNames()).MarkerPosition())
}

func TestGridRow(t *testing.T) {
	g := NewGrid(testNames(GridCells))

	row := g.Row(1)
	require.Len(t, row, GridSize)
	assert.Equal(t, "Artist 06", row[0].Name)
	assert.Nil(t, g.Row(GridSize))
}

func TestParseArtistPool(t *testing.T) {
	pool := ParseArtistPool("  Queen \n\nABBA\r\n   \nQueen\n")
	assert.Equal(t, ArtistPool{"Queen", "ABBA", "Queen"}, pool)
	assert.True(t, pool.Contains("ABBA"))
	assert.False(t, pool.Contains("abba"))
}

func TestArtistPoolValidate(t *testing.T) {
	assert.ErrorIs(t, ArtistPool(testNames(35)).Validate(), ErrInsufficientArtists)
	assert.NoError(t, ArtistPool(testNames(36)).Validate())
}

func TestSelectionCollapsesDuplicates(t *testing.T) {
	sel := NewSelection([]string{"a", "a", "b"}, []int{1, 1})
	assert.Len(t, sel.Called, 2)
	assert.Len(t, sel.Excluded, 1)
}
