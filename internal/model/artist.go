package model

import "strings"

// ArtistPool is the ordered list of artist names a game draws its grids from.
// Duplicate names are allowed and compare equal.
type ArtistPool []string

// ParseArtistPool splits operator input into a pool, one artist per line.
// Surrounding whitespace is trimmed and blank lines are dropped.
func ParseArtistPool(text string) ArtistPool {
	lines := strings.Split(text, "\n")
	pool := make(ArtistPool, 0, len(lines))
	for _, line := range lines {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		pool = append(pool, name)
	}
	return pool
}

// NormalizeArtistPool applies the same trimming rules as ParseArtistPool to an
// already split list.
func NormalizeArtistPool(names []string) ArtistPool {
	pool := make(ArtistPool, 0, len(names))
	for _, n := range names {
		if name := strings.TrimSpace(n); name != "" {
			pool = append(pool, name)
		}
	}
	return pool
}

// Validate checks the pool can fill at least one grid
func (p ArtistPool) Validate() error {
	if len(p) < GridCells {
		return ErrInsufficientArtists
	}
	return nil
}

// Contains reports whether name is in the pool (exact match)
func (p ArtistPool) Contains(name string) bool {
	for _, a := range p {
		if a == name {
			return true
		}
	}
	return false
}
