package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/musicbingo/internal/api/response"
)

func TestParseCardList(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"", []int{}, false},
		{"3", []int{3}, false},
		{"1,2, 7", []int{1, 2, 7}, false},
		{"4 5\t6", []int{4, 5, 6}, false},
		{"1,x", nil, true},
		{"0", nil, true},
		{"-2", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseCardList(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadGameFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	content := "name: Friday\ncards: 12\nmarker: true\nartists:\n  - ABBA\n  - Blur\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	gf, err := LoadGameFile(path)
	require.NoError(t, err)
	assert.Equal(t, GameFile{Name: "Friday", Cards: 12, Marker: true, Artists: []string{"ABBA", "Blur"}}, gf)

	require.NoError(t, os.WriteFile(path, []byte("name: [unclosed"), 0o600))
	_, err = LoadGameFile(path)
	assert.Error(t, err)
}

func TestOutput_TextStats(t *testing.T) {
	var buf bytes.Buffer
	NewOutput("text", &buf).Print(response.Stats{
		Cards: []response.CardStat{
			{CardNumber: 4, Remaining: 0, IsComplete: true},
			{CardNumber: 2, Remaining: 1},
		},
		Winners:      []int{4},
		NearComplete: []int{2},
		TotalCards:   2,
	})

	out := buf.String()
	assert.Contains(t, out, "Cards in play: 2")
	assert.Contains(t, out, "BINGO: #4")
	assert.Contains(t, out, "Close: #2")
	assert.Contains(t, out, "#2     1 remaining")
}

func TestOutput_TextGridAlignsColumns(t *testing.T) {
	var buf bytes.Buffer
	NewOutput("text", &buf).Print(response.CardList{
		GameID: "g1",
		Cards: []response.Card{{
			Number: 1,
			Rows:   [][]string{{"A", "Blur"}, {"Oasis", "Pulp"}},
		}},
	})

	assert.Equal(t, "Card #1\n| A     | Blur  |\n| Oasis | Pulp  |\n", buf.String())
}

func TestOutput_JSONMessage(t *testing.T) {
	var buf bytes.Buffer
	NewOutput("json", &buf).PrintMessage("Session ended: s1")
	assert.JSONEq(t, `{"message":"Session ended: s1"}`, buf.String())
}

func TestOutput_UnknownTypeFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	NewOutput("text", &buf).Print(map[string]int{"n": 1})
	assert.JSONEq(t, `{"n":1}`, buf.String())
}
