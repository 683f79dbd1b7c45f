package recommend

import (
	"context"
	"regexp"
	"strings"

	"musicreco/internal/logger"
)

// DefaultAlbumLimit bounds each online album list.
const DefaultAlbumLimit = 10

// AlbumSuggestion is an album worth listening to next.
type AlbumSuggestion struct {
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Year      int    `json:"year,omitempty"`
	Genre     string `json:"genre,omitempty"`
	SongID    int    `json:"song_id,omitempty"`
	ReleaseID string `json:"release_id,omitempty"`
}

// AlbumSource looks up albums outside the local library.
type AlbumSource interface {
	Name() string
	AlbumsByArtist(ctx context.Context, artist string, limit int) ([]AlbumSuggestion, error)
	AlbumsByGenre(ctx context.Context, genre string, limit int) ([]AlbumSuggestion, error)
}

// AlbumReport groups album suggestions for one reference track. All lists are
// non-nil. Fallback is only filled when nothing else could be suggested.
type AlbumReport struct {
	Artist   string            `json:"artist"`
	Genre    string            `json:"genre"`
	Library  []AlbumSuggestion `json:"library_albums"`
	ByArtist []AlbumSuggestion `json:"artist_albums"`
	ByGenre  []AlbumSuggestion `json:"genre_albums"`
	Fallback []AlbumSuggestion `json:"fallback_albums"`
	Error    string            `json:"error,omitempty"`
}

// AlbumsFromResult turns the similar tracks of res into one entry per
// artist and album, in ranked order. Tracks without an album are ignored.
func AlbumsFromResult(res Result) []AlbumSuggestion {
	seen := make(map[string]bool)
	albums := []AlbumSuggestion{}
	for _, t := range res.GenreRecommendations {
		if strings.TrimSpace(t.Album) == "" {
			continue
		}
		key := t.Artist + " - " + t.Album
		if seen[key] {
			continue
		}
		seen[key] = true
		albums = append(albums, AlbumSuggestion{
			Title:  t.Album,
			Artist: t.Artist,
			Genre:  t.Genre,
			SongID: t.ID,
		})
	}
	return albums
}

// PickGenre returns the most common usable genre among the similar tracks of
// res, or "" when none is usable. Ties go to the higher ranked track.
func PickGenre(res Result) string {
	counts := make(map[string]int)
	best := ""
	for _, t := range res.GenreRecommendations {
		g := strings.TrimSpace(t.Genre)
		if g == "" || strings.EqualFold(g, "unknown") {
			continue
		}
		counts[g]++
		if best == "" || counts[g] > counts[best] {
			best = g
		}
	}
	return best
}

var (
	genreVersionSuffix = regexp.MustCompile(`\.[0-9]+$`)
	genreSymbols       = regexp.MustCompile(`[^a-zA-Z0-9\s]+`)
	genreSpaces        = regexp.MustCompile(`\s+`)
)

// CleanGenre turns a genre tag into a search tag: version suffixes such as
// ".1" are dropped, symbols become spaces and the result is lower case.
// Anything shorter than three characters becomes "pop".
func CleanGenre(genre string) string {
	g := genreVersionSuffix.ReplaceAllString(genre, "")
	g = genreSymbols.ReplaceAllString(g, " ")
	g = genreSpaces.ReplaceAllString(strings.TrimSpace(g), " ")
	g = strings.ToLower(g)
	if len(g) < 3 {
		return "pop"
	}
	return g
}

// FallbackAlbums is a curated list of well known albums.
func FallbackAlbums() []AlbumSuggestion {
	return []AlbumSuggestion{
		{Title: "Thriller", Artist: "Michael Jackson", Year: 1982, Genre: "Pop"},
		{Title: "The Dark Side of the Moon", Artist: "Pink Floyd", Year: 1973, Genre: "Rock"},
		{Title: "Back in Black", Artist: "AC/DC", Year: 1980, Genre: "Hard Rock"},
		{Title: "Abbey Road", Artist: "The Beatles", Year: 1969, Genre: "Rock"},
		{Title: "Rumours", Artist: "Fleetwood Mac", Year: 1977, Genre: "Rock"},
		{Title: "Kind of Blue", Artist: "Miles Davis", Year: 1959, Genre: "Jazz"},
		{Title: "Purple Rain", Artist: "Prince", Year: 1984, Genre: "Pop"},
		{Title: "Nevermind", Artist: "Nirvana", Year: 1991, Genre: "Grunge"},
		{Title: "Hotel California", Artist: "Eagles", Year: 1976, Genre: "Rock"},
		{Title: "Appetite for Destruction", Artist: "Guns N' Roses", Year: 1987, Genre: "Hard Rock"},
	}
}

// AlbumSuggester builds album reports from recommendation results. With a
// nil source it works from the library alone.
type AlbumSuggester struct {
	source AlbumSource
	limit  int
	logger *logger.Logger
}

// NewAlbumSuggester creates an AlbumSuggester. A zero limit falls back to
// DefaultAlbumLimit.
func NewAlbumSuggester(source AlbumSource, limit int, log *logger.Logger) *AlbumSuggester {
	if limit <= 0 {
		limit = DefaultAlbumLimit
	}
	return &AlbumSuggester{source: source, limit: limit, logger: log}
}

// Suggest builds the album report for a reference track by artist whose
// recommendations are res. Lookup failures are logged and reported in the
// Error field; the library list is always returned.
func (a *AlbumSuggester) Suggest(ctx context.Context, res Result, artist string) AlbumReport {
	report := AlbumReport{
		Artist:   artist,
		Genre:    PickGenre(res),
		Library:  AlbumsFromResult(res),
		ByArtist: []AlbumSuggestion{},
		ByGenre:  []AlbumSuggestion{},
		Fallback: []AlbumSuggestion{},
	}

	if a.source != nil {
		var errs []string
		if artist != "" {
			albums, err := a.source.AlbumsByArtist(ctx, artist, a.limit)
			if err != nil {
				a.logger.Warn("%s lookup for artist %q failed: %v", a.source.Name(), artist, err)
				errs = append(errs, err.Error())
			} else if albums != nil {
				report.ByArtist = albums
			}
		}
		if report.Genre != "" {
			albums, err := a.source.AlbumsByGenre(ctx, CleanGenre(report.Genre), a.limit)
			if err != nil {
				a.logger.Warn("%s lookup for genre %q failed: %v", a.source.Name(), report.Genre, err)
				errs = append(errs, err.Error())
			} else if albums != nil {
				report.ByGenre = albums
			}
		}
		report.Error = strings.Join(errs, "; ")
	}

	if len(report.Library) == 0 && len(report.ByArtist) == 0 && len(report.ByGenre) == 0 {
		a.logger.Debug("No album suggestions for %q, using the curated list", artist)
		report.Fallback = FallbackAlbums()
	}
	return report
}
