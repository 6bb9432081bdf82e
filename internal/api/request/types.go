package request

// CreateGameRequest is the request body for creating a game. Artists may be
// given either as newline separated text or as a list; the list wins when
// both are present.
type CreateGameRequest struct {
	Name       string   `json:"name"`
	CardCount  int      `json:"card_count"`
	Artists    string   `json:"artists,omitempty"`
	ArtistList []string `json:"artist_list,omitempty"`
	HasMarker  bool     `json:"has_marker"`
}

// StatsRequest is the request body for the stateless stats endpoint
type StatsRequest struct {
	SelectedArtists []string `json:"selected_artists"`
	ExcludedCards   []int    `json:"excluded_cards"`
}

// ToggleArtistRequest is the request body for calling or uncalling an artist
type ToggleArtistRequest struct {
	Artist string `json:"artist"`
}

// SetExcludedRequest is the request body for replacing a session's exclusions
type SetExcludedRequest struct {
	Cards []int `json:"cards"`
}
