package generator

import (
	"math/big"

	"github.com/mcoot/musicbingo/internal/dependencies/random"
	"github.com/mcoot/musicbingo/internal/model"
)

// DefaultMaxAttempts bounds the redraws spent looking for one unseen grid
const DefaultMaxAttempts = 10000

// SeenSet records the identity keys already issued in one generation run
type SeenSet map[string]struct{}

// NewSeenSet creates an empty SeenSet
func NewSeenSet() SeenSet {
	return make(SeenSet)
}

// Has reports whether key has been issued
func (s SeenSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Add registers key as issued
func (s SeenSet) Add(key string) {
	s[key] = struct{}{}
}

// Generator draws unique bingo grids from an artist pool
type Generator struct {
	random      random.Random
	maxAttempts int
}

// Option configures a Generator
type Option func(*Generator)

// WithMaxAttempts sets how many colliding draws are tolerated per card
// before giving up with ErrExhaustedUniqueGrids
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// New creates a Generator using rnd for every draw
func New(rnd random.Random, opts ...Option) *Generator {
	g := &Generator{
		random:      rnd,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateGame draws cardCount grids whose clean-name multisets are pairwise
// distinct. Grids are returned in generation order; position i becomes card
// number i+1. The seen set lives only for this call.
func (g *Generator) GenerateGame(pool model.ArtistPool, cardCount int, hasMarker bool) ([]model.Grid, error) {
	if cardCount < 1 {
		return nil, model.ErrInvalidCardCount
	}
	if err := pool.Validate(); err != nil {
		return nil, err
	}
	if !enoughCombinations(len(pool), cardCount) {
		return nil, model.ErrExhaustedUniqueGrids
	}

	seen := NewSeenSet()
	grids := make([]model.Grid, 0, cardCount)
	for i := 0; i < cardCount; i++ {
		grid, err := g.GenerateCard(pool, hasMarker, seen)
		if err != nil {
			return nil, err
		}
		grids = append(grids, grid)
	}
	return grids, nil
}

// GenerateCard draws one grid whose identity is not yet in seen and registers
// it. When hasMarker is set, one cell is marked after the identity is fixed.
func (g *Generator) GenerateCard(pool model.ArtistPool, hasMarker bool, seen SeenSet) (model.Grid, error) {
	if err := pool.Validate(); err != nil {
		return nil, err
	}
	if seen == nil {
		seen = NewSeenSet()
	}

	candidate := make([]string, len(pool))
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		copy(candidate, pool)
		random.Shuffle(g.random, candidate)

		names := candidate[:model.GridCells]
		key := model.IdentityKey(names)
		if seen.Has(key) {
			continue
		}
		seen.Add(key)

		// Display order must not reveal the sorted key
		grid := model.NewGrid(names)
		random.Shuffle(g.random, grid)

		if hasMarker {
			grid[g.random.Intn(len(grid))].Marked = true
		}
		return grid, nil
	}

	return nil, model.ErrExhaustedUniqueGrids
}

// MaxUniqueGrids returns C(poolSize, 36), the number of distinct 36-name
// subsets a pool of distinct names can produce
func MaxUniqueGrids(poolSize int) *big.Int {
	if poolSize < model.GridCells {
		return big.NewInt(0)
	}
	return new(big.Int).Binomial(int64(poolSize), model.GridCells)
}

func enoughCombinations(poolSize, cardCount int) bool {
	return MaxUniqueGrids(poolSize).Cmp(big.NewInt(int64(cardCount))) >= 0
}
