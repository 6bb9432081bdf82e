package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/musicbingo/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeInsufficientArtists  = "INSUFFICIENT_ARTISTS"
	CodeExhaustedUniqueGrids = "EXHAUSTED_UNIQUE_GRIDS"
	CodeGameNotFound         = "GAME_NOT_FOUND"
	CodeCardNotFound         = "CARD_NOT_FOUND"
	CodeSessionNotFound      = "SESSION_NOT_FOUND"
	CodeArtistNotInGame      = "ARTIST_NOT_IN_GAME"
	CodeInternalError        = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status err maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrInsufficientArtists):
		return &httpError{http.StatusBadRequest, APIError{CodeInsufficientArtists, "Need at least 36 artists for a 6x6 grid"}}
	case errors.Is(err, model.ErrExhaustedUniqueGrids):
		return &httpError{http.StatusConflict, APIError{CodeExhaustedUniqueGrids, "Not enough distinct artist combinations for that many cards"}}
	case errors.Is(err, model.ErrInvalidGameName):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Game name is required"}}
	case errors.Is(err, model.ErrInvalidCardCount):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Card count must be at least 1"}}
	case errors.Is(err, model.ErrInvalidCardNumber):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Card numbers must be positive"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrCardNotFound), errors.Is(err, model.ErrCardsNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeCardNotFound, "Card not found"}}
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Play session not found"}}
	case errors.Is(err, model.ErrArtistNotInGame):
		return &httpError{http.StatusBadRequest, APIError{CodeArtistNotInGame, "Artist is not part of this game"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error. A non-empty request ID
// is appended so operators can match the response to the log line.
func NewInternalError(requestID string) error {
	msg := "Internal server error"
	if requestID != "" {
		msg += " (request " + requestID + ")"
	}
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, msg}}
}
