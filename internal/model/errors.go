package model

import "errors"

// Common errors used across the application
var (
	// Game definition errors
	ErrInsufficientArtists  = errors.New("need at least 36 artists for a 6x6 grid")
	ErrInvalidCardCount     = errors.New("card count must be at least 1")
	ErrInvalidGameName      = errors.New("game name is required")
	ErrExhaustedUniqueGrids = errors.New("no more unique grids can be drawn from the artist pool")

	// Lookup errors
	ErrGameNotFound    = errors.New("game not found")
	ErrCardsNotFound   = errors.New("cards not found")
	ErrCardNotFound    = errors.New("card not found")
	ErrSessionNotFound = errors.New("play session not found")

	// Play session errors
	ErrArtistNotInGame   = errors.New("artist is not part of this game")
	ErrInvalidCardNumber = errors.New("card number must be positive")
	ErrTemplateNotFound  = errors.New("card template not found")
)
