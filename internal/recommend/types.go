// Package recommend produces artist and track suggestions for a reference
// track from the lexical content of a library corpus.
package recommend

// Default list bounds.
const (
	DefaultArtistLimit = 5
	DefaultTrackLimit  = 10
)

// ArtistRecommendation is a suggested artist together with the genre of its
// first track in the corpus.
type ArtistRecommendation struct {
	Artist string `json:"artist"`
	Genre  string `json:"genre"`
}

// TrackRecommendation is a suggested track.
type TrackRecommendation struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Genre  string `json:"genre"`
	Album  string `json:"album"`
}

// Result is the outcome of one recommendation request. Both lists are always
// non-nil so they encode as empty arrays. Error carries the diagnostic of a
// failed request.
type Result struct {
	ArtistRecommendations []ArtistRecommendation `json:"artist_recommendations"`
	GenreRecommendations  []TrackRecommendation  `json:"genre_recommendations"`
	Error                 string                 `json:"error,omitempty"`
}

// EmptyResult returns a Result with empty lists and the given diagnostic.
func EmptyResult(diagnostic string) Result {
	return Result{
		ArtistRecommendations: []ArtistRecommendation{},
		GenreRecommendations:  []TrackRecommendation{},
		Error:                 diagnostic,
	}
}
