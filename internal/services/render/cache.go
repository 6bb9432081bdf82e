package render

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/mcoot/musicbingo/internal/model"
)

type cacheKey struct {
	gameID model.GameID
	number int
}

// CachedRenderer memoises another Renderer. Card grids never change once
// generated, so entries are only evicted for space.
type CachedRenderer struct {
	next  Renderer
	cache *lru.ARCCache
}

// NewCachedRenderer wraps next with an ARC cache holding up to size images
func NewCachedRenderer(next Renderer, size int) (*CachedRenderer, error) {
	c, err := lru.NewARC(size)
	if err != nil {
		return nil, fmt.Errorf("lru new instance of lru arc cache: %w", err)
	}
	return &CachedRenderer{next: next, cache: c}, nil
}

// Render returns the cached image or renders and stores it
func (r *CachedRenderer) Render(ctx context.Context, card model.Card) ([]byte, error) {
	key := cacheKey{gameID: card.GameID, number: card.Number}
	if v, ok := r.cache.Get(key); ok {
		return v.([]byte), nil
	}
	data, err := r.next.Render(ctx, card)
	if err != nil {
		return nil, err
	}
	r.cache.Add(key, data)
	return data, nil
}

// Forget drops every cached image of a game
func (r *CachedRenderer) Forget(gameID model.GameID) {
	for _, k := range r.cache.Keys() {
		if key, ok := k.(cacheKey); ok && key.gameID == gameID {
			r.cache.Remove(k)
		}
	}
}
