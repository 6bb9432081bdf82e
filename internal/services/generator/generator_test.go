package generator

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/musicbingo/internal/dependencies/mocks"
	"github.com/mcoot/musicbingo/internal/dependencies/random"
	"github.com/mcoot/musicbingo/internal/model"
)

func makePool(n int) model.ArtistPool {
	pool := make(model.ArtistPool, n)
	for i := range pool {
		pool[i] = fmt.Sprintf("Artist %03d", i)
	}
	return pool
}

type GeneratorSuite struct {
	suite.Suite
}

func TestGeneratorSuite(t *testing.T) {
	suite.Run(t, new(GeneratorSuite))
}

func (s *GeneratorSuite) assertShape(grid model.Grid, pool model.ArtistPool) {
	s.Len(grid, model.GridCells)
	for _, c := range grid {
		s.True(pool.Contains(c.Name), "cell %q is not in the pool", c.Name)
	}
}

func (s *GeneratorSuite) assertUnique(grids []model.Grid) {
	seen := make(map[string]int)
	for i, g := range grids {
		key := g.IdentityKey()
		if prev, ok := seen[key]; ok {
			s.Failf("duplicate grid", "card %d repeats card %d", i+1, prev+1)
		}
		seen[key] = i
	}
}

// GenerateGame tests

func (s *GeneratorSuite) TestExactPoolSingleCardUsesEveryArtist() {
	pool := makePool(36)
	gen := New(random.NewSeeded(1))

	grids, err := gen.GenerateGame(pool, 1, false)
	s.Require().NoError(err)
	s.Require().Len(grids, 1)

	s.ElementsMatch([]string(pool), grids[0].Names())
	s.Equal(-1, grids[0].MarkerPosition())
}

func (s *GeneratorSuite) TestExactPoolTwoCardsIsExhausted() {
	gen := New(random.NewSeeded(1))

	grids, err := gen.GenerateGame(makePool(36), 2, false)
	s.ErrorIs(err, model.ErrExhaustedUniqueGrids)
	s.Nil(grids)
}

func (s *GeneratorSuite) TestMarkedCardsAreUniqueWithOneMarkerEach() {
	pool := makePool(40)
	gen := New(random.NewSeeded(2))

	grids, err := gen.GenerateGame(pool, 5, true)
	s.Require().NoError(err)
	s.Require().Len(grids, 5)

	for _, g := range grids {
		s.assertShape(g, pool)
		marked := 0
		for _, c := range g {
			if c.Marked {
				marked++
			}
		}
		s.Equal(1, marked)
	}
	s.assertUnique(grids)
}

func (s *GeneratorSuite) TestManyCardsStayUnique() {
	pool := makePool(37)
	gen := New(random.NewSeeded(3))

	// 37 is the full number of 36-subsets of a 37 artist pool
	grids, err := gen.GenerateGame(pool, 37, false)
	s.Require().NoError(err)
	s.Len(grids, 37)
	s.assertUnique(grids)
}

func (s *GeneratorSuite) TestSeededGenerationIsReproducible() {
	pool := makePool(60)

	a, err := New(random.NewSeeded(99)).GenerateGame(pool, 10, true)
	s.Require().NoError(err)
	b, err := New(random.NewSeeded(99)).GenerateGame(pool, 10, true)
	s.Require().NoError(err)
	c, err := New(random.NewSeeded(100)).GenerateGame(pool, 10, true)
	s.Require().NoError(err)

	s.Equal(a, b)
	s.NotEqual(a, c)
}

func (s *GeneratorSuite) TestSeenSetDoesNotLeakAcrossGames() {
	gen := New(random.NewSeeded(4))
	pool := makePool(36)

	_, err := gen.GenerateGame(pool, 1, false)
	s.Require().NoError(err)

	// The only possible grid again: would fail if identities leaked between runs
	_, err = gen.GenerateGame(pool, 1, false)
	s.NoError(err)
}

func (s *GeneratorSuite) TestInsufficientArtists() {
	gen := New(random.NewSeeded(5))

	_, err := gen.GenerateGame(makePool(35), 1, false)
	s.ErrorIs(err, model.ErrInsufficientArtists)

	_, err = gen.GenerateCard(makePool(10), false, NewSeenSet())
	s.ErrorIs(err, model.ErrInsufficientArtists)
}

func (s *GeneratorSuite) TestInvalidCardCount() {
	gen := New(random.NewSeeded(6))

	_, err := gen.GenerateGame(makePool(40), 0, false)
	s.ErrorIs(err, model.ErrInvalidCardCount)
}

// GenerateCard tests

func (s *GeneratorSuite) TestRetryLoopIsBounded() {
	rnd := mocks.NewMockRandom()
	gen := New(rnd, WithMaxAttempts(5))
	pool := makePool(37)
	seen := NewSeenSet()

	// A random source that always answers 0 repeats the same permutation
	_, err := gen.GenerateCard(pool, false, seen)
	s.Require().NoError(err)

	callsBefore := rnd.IntnCalls()
	_, err = gen.GenerateCard(pool, false, seen)
	s.ErrorIs(err, model.ErrExhaustedUniqueGrids)

	// Five full pool shuffles of 36 swaps each, nothing more
	s.Equal(5*36, rnd.IntnCalls()-callsBefore)
}

func (s *GeneratorSuite) TestMarkerPlacedAtDrawnPosition() {
	rnd := mocks.NewMockRandom()
	// 35 swaps for the pool shuffle, 35 for the display shuffle, then the marker
	rnd.QueueIntn(make([]int, 70)...)
	rnd.QueueIntn(7)

	grid, err := New(rnd).GenerateCard(makePool(36), true, NewSeenSet())
	s.Require().NoError(err)
	s.Equal(7, grid.MarkerPosition())
}

func (s *GeneratorSuite) TestMarkerDoesNotAffectIdentity() {
	rnd := mocks.NewMockRandom()
	rnd.QueueIntn(make([]int, 70)...)
	rnd.QueueIntn(12)
	seen := NewSeenSet()

	grid, err := New(rnd).GenerateCard(makePool(36), true, seen)
	s.Require().NoError(err)

	s.True(seen.Has(model.NewGrid(grid.Names()).IdentityKey()))
}

func (s *GeneratorSuite) TestDisplayOrderIsReshuffled() {
	grid, err := New(random.NewSeeded(8)).GenerateCard(makePool(36), false, NewSeenSet())
	s.Require().NoError(err)

	s.False(sort.StringsAreSorted(grid.Names()), "display order leaks the identity key order")
}

func (s *GeneratorSuite) TestMaxUniqueGrids() {
	s.Equal(int64(0), MaxUniqueGrids(35).Int64())
	s.Equal(int64(1), MaxUniqueGrids(36).Int64())
	s.Equal(int64(37), MaxUniqueGrids(37).Int64())
	s.Equal(int64(703), MaxUniqueGrids(38).Int64())
}
