package recommend

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"musicreco/internal/logger"
)

type fakeAlbumSource struct {
	byArtist  []AlbumSuggestion
	byGenre   []AlbumSuggestion
	artistErr error
	genreErr  error

	artists []string
	genres  []string
}

func (f *fakeAlbumSource) Name() string { return "fake" }

func (f *fakeAlbumSource) AlbumsByArtist(ctx context.Context, artist string, limit int) ([]AlbumSuggestion, error) {
	f.artists = append(f.artists, artist)
	return f.byArtist, f.artistErr
}

func (f *fakeAlbumSource) AlbumsByGenre(ctx context.Context, genre string, limit int) ([]AlbumSuggestion, error) {
	f.genres = append(f.genres, genre)
	return f.byGenre, f.genreErr
}

var albumResult = Result{
	ArtistRecommendations: []ArtistRecommendation{},
	GenreRecommendations: []TrackRecommendation{
		{ID: 2, Title: "Freddie Freeloader", Artist: "Miles Davis", Genre: "Jazz", Album: "Kind of Blue"},
		{ID: 3, Title: "Blue in Green", Artist: "Miles Davis", Genre: "Jazz", Album: "Kind of Blue"},
		{ID: 4, Title: "Take Five", Artist: "Dave Brubeck", Genre: "Cool Jazz", Album: "Time Out"},
		{ID: 5, Title: "Untitled", Artist: "Nobody", Genre: "Unknown", Album: ""},
		{ID: 6, Title: "Kind of Blue", Artist: "Someone Else", Genre: "Jazz", Album: "Kind of Blue"},
	},
}

func TestAlbumsFromResult(t *testing.T) {
	got := AlbumsFromResult(albumResult)
	want := []AlbumSuggestion{
		{Title: "Kind of Blue", Artist: "Miles Davis", Genre: "Jazz", SongID: 2},
		{Title: "Time Out", Artist: "Dave Brubeck", Genre: "Cool Jazz", SongID: 4},
		{Title: "Kind of Blue", Artist: "Someone Else", Genre: "Jazz", SongID: 6},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AlbumsFromResult =\n%+v\nwant\n%+v", got, want)
	}

	if got := AlbumsFromResult(EmptyResult("")); got == nil || len(got) != 0 {
		t.Errorf("empty result should give an empty non-nil list, got %#v", got)
	}
}

func TestPickGenre(t *testing.T) {
	tests := []struct {
		name   string
		genres []string
		want   string
	}{
		{"most common", []string{"Rock", "Jazz", "Jazz"}, "Jazz"},
		{"tie goes to first", []string{"Rock", "Jazz"}, "Rock"},
		{"unknown ignored", []string{"unknown", "Unknown", "Blues"}, "Blues"},
		{"nothing usable", []string{"", "Unknown"}, ""},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := EmptyResult("")
			for i, g := range tt.genres {
				res.GenreRecommendations = append(res.GenreRecommendations, TrackRecommendation{ID: i, Genre: g})
			}
			if got := PickGenre(res); got != tt.want {
				t.Errorf("PickGenre = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanGenre(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Rock", "rock"},
		{"Hip-Hop", "hip hop"},
		{"Drum & Bass", "drum bass"},
		{"Electronic.2", "electronic"},
		{"  Cool   Jazz ", "cool jazz"},
		{"R&B", "r b"},
		{"DJ", "pop"},
		{"", "pop"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := CleanGenre(tt.in); got != tt.want {
				t.Errorf("CleanGenre(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSuggestOffline(t *testing.T) {
	s := NewAlbumSuggester(nil, 0, logger.Discard())
	report := s.Suggest(context.Background(), albumResult, "Miles Davis")

	if report.Genre != "Jazz" {
		t.Errorf("genre = %q, want Jazz", report.Genre)
	}
	if len(report.Library) != 3 {
		t.Errorf("library albums = %d, want 3", len(report.Library))
	}
	if report.ByArtist == nil || report.ByGenre == nil || report.Fallback == nil {
		t.Error("lists should always be present")
	}
	if len(report.Fallback) != 0 {
		t.Error("fallback should stay empty when the library has suggestions")
	}
	if report.Error != "" {
		t.Errorf("error = %q, want none", report.Error)
	}
}

func TestSuggestOnline(t *testing.T) {
	src := &fakeAlbumSource{
		byArtist: []AlbumSuggestion{{Title: "Bitches Brew", Artist: "Miles Davis", Year: 1970}},
		byGenre:  []AlbumSuggestion{{Title: "Mingus Ah Um", Artist: "Charles Mingus", Year: 1959}},
	}
	s := NewAlbumSuggester(src, 5, logger.Discard())
	report := s.Suggest(context.Background(), albumResult, "Miles Davis")

	if !reflect.DeepEqual(src.artists, []string{"Miles Davis"}) {
		t.Errorf("artist lookups = %v", src.artists)
	}
	if !reflect.DeepEqual(src.genres, []string{"jazz"}) {
		t.Errorf("genre lookups = %v, want the cleaned genre", src.genres)
	}
	if len(report.ByArtist) != 1 || report.ByArtist[0].Title != "Bitches Brew" {
		t.Errorf("artist albums = %+v", report.ByArtist)
	}
	if len(report.ByGenre) != 1 || report.ByGenre[0].Title != "Mingus Ah Um" {
		t.Errorf("genre albums = %+v", report.ByGenre)
	}
}

func TestSuggestLookupFailure(t *testing.T) {
	src := &fakeAlbumSource{
		artistErr: errors.New("service unavailable"),
		genreErr:  errors.New("timeout"),
	}
	s := NewAlbumSuggester(src, 5, logger.Discard())
	report := s.Suggest(context.Background(), albumResult, "Miles Davis")

	if report.Error != "service unavailable; timeout" {
		t.Errorf("error = %q", report.Error)
	}
	if len(report.Library) != 3 {
		t.Errorf("library albums should survive lookup failures, got %d", len(report.Library))
	}
	if report.ByArtist == nil || report.ByGenre == nil {
		t.Error("failed lookups should leave empty lists, not nil")
	}
}

func TestSuggestFallback(t *testing.T) {
	res := EmptyResult("")
	res.GenreRecommendations = []TrackRecommendation{{ID: 1, Title: "Loose", Artist: "Nobody", Genre: "Unknown"}}

	src := &fakeAlbumSource{}
	s := NewAlbumSuggester(src, 5, logger.Discard())
	report := s.Suggest(context.Background(), res, "")

	if len(src.artists) != 0 || len(src.genres) != 0 {
		t.Errorf("no lookup expected without artist or genre, got %v %v", src.artists, src.genres)
	}
	if !reflect.DeepEqual(report.Fallback, FallbackAlbums()) {
		t.Errorf("fallback = %+v", report.Fallback)
	}
}
