package musicbrainz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(url string) *Client {
	c := New(url)
	c.httpClient = &http.Client{Timeout: 5 * time.Second}
	c.interval = 0 // no rate limit in tests
	return c
}

func TestAlbumsByArtist(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/release" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if ua := r.Header.Get("User-Agent"); ua == "" {
			t.Error("missing User-Agent header")
		}
		if got := r.URL.Query().Get("fmt"); got != "json" {
			t.Errorf("fmt = %q, want json", got)
		}
		if got := r.URL.Query().Get("query"); got != `artist:"Nirvana"` {
			t.Errorf("query = %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"releases": [
				{"id": "r1", "title": "Nevermind", "status": "Bootleg", "date": "1992",
				 "release-group": {"primary-type": "Album", "secondary-types": ["Live"]}},
				{"id": "r2", "title": "In Utero", "status": "Official", "date": "1993-09-13",
				 "artist-credit": [{"name": "Nirvana", "artist": {"id": "a1", "name": "Nirvana"}}],
				 "release-group": {"primary-type": "Album"}},
				{"id": "r3", "title": "Nevermind", "status": "Official", "date": "1991-09-24",
				 "artist-credit": [{"artist": {"id": "a1", "name": "Nirvana"}}],
				 "release-group": {"primary-type": "Album"}},
				{"id": "r4", "title": "", "status": "Official"}
			]
		}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	albums, err := c.AlbumsByArtist(context.Background(), "Nirvana", 10)
	if err != nil {
		t.Fatalf("AlbumsByArtist() error: %v", err)
	}
	if len(albums) != 2 {
		t.Fatalf("expected 2 albums, got %d: %+v", len(albums), albums)
	}

	first := albums[0]
	if first.Title != "In Utero" || first.Year != 1993 || first.ReleaseID != "r2" {
		t.Errorf("first album = %+v, want the official In Utero", first)
	}
	second := albums[1]
	if second.Title != "Nevermind" || second.ReleaseID != "r3" || second.Year != 1991 {
		t.Errorf("second album = %+v, want the official Nevermind", second)
	}
	if second.Artist != "Nirvana" {
		t.Errorf("Artist = %q, want Nirvana", second.Artist)
	}
}

func TestAlbumsByArtistShortName(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("query")
		w.Write([]byte(`{"releases": [{"id": "r1", "title": "Achtung Baby"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	albums, err := c.AlbumsByArtist(context.Background(), "U2", 1)
	if err != nil {
		t.Fatalf("AlbumsByArtist() error: %v", err)
	}
	if query != `artist:"U2" AND status:official` {
		t.Errorf("query = %q", query)
	}
	if len(albums) != 1 || albums[0].Artist != "U2" {
		t.Errorf("albums = %+v, want the searched artist as credit", albums)
	}
}

func TestAlbumsByArtistEmpty(t *testing.T) {
	c := newTestClient("http://127.0.0.1:0")
	albums, err := c.AlbumsByArtist(context.Background(), "  ", 5)
	if err != nil || albums != nil {
		t.Errorf("got %v, %v; want nil, nil", albums, err)
	}
}

func TestAlbumsByGenre(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch r.URL.Path {
		case "/artist":
			if got := q.Get("query"); got != `tag:"grunge"` {
				t.Errorf("artist query = %q", got)
			}
			w.Write([]byte(`{"artists": [
				{"id": "a1", "name": "Nirvana"},
				{"id": "a2", "name": "Broken Band"},
				{"id": "a3", "name": "Soundgarden"}
			]}`))
		case "/release-group":
			if q.Get("type") != "album" {
				t.Errorf("type = %q, want album", q.Get("type"))
			}
			switch q.Get("artist") {
			case "a1":
				w.Write([]byte(`{"release-groups": [
					{"id": "g1", "title": "Bleach", "first-release-date": "1989-06-15"},
					{"id": "g2", "title": "Bleach", "first-release-date": "2009"}
				]}`))
			case "a2":
				http.Error(w, "boom", http.StatusInternalServerError)
			case "a3":
				w.Write([]byte(`{"release-groups": [{"id": "g3", "title": "Superunknown", "first-release-date": "1994-03-08"}]}`))
			}
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	albums, err := c.AlbumsByGenre(context.Background(), "grunge", 10)
	if err != nil {
		t.Fatalf("AlbumsByGenre() error: %v", err)
	}
	if len(albums) != 2 {
		t.Fatalf("expected 2 albums, got %d: %+v", len(albums), albums)
	}
	if albums[0].Title != "Bleach" || albums[0].Artist != "Nirvana" || albums[0].Year != 1989 || albums[0].Genre != "grunge" {
		t.Errorf("first album = %+v", albums[0])
	}
	if albums[1].Title != "Superunknown" || albums[1].Artist != "Soundgarden" {
		t.Errorf("second album = %+v", albums[1])
	}
}

func TestAlbumsByGenreAllFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/artist" {
			w.Write([]byte(`{"artists": [{"id": "a1", "name": "Nirvana"}]}`))
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.AlbumsByGenre(context.Background(), "grunge", 10)
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Errorf("err = %v, want the album lookup failure", err)
	}
}

func TestAlbumsByArtistServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.AlbumsByArtist(context.Background(), "Nirvana", 5); err == nil {
		t.Error("expected an error for a 502 response")
	}
}

func TestRetryOnTooManyRequests(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"releases": [{"id": "r1", "title": "Ten"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	albums, err := c.AlbumsByArtist(context.Background(), "Pearl Jam", 5)
	if err != nil {
		t.Fatalf("AlbumsByArtist() error: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
	if len(albums) != 1 || albums[0].Title != "Ten" {
		t.Errorf("albums = %+v", albums)
	}
}

func TestRateLimitHonoursContext(t *testing.T) {
	c := New("http://127.0.0.1:0")
	c.lastRequest = time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.rateLimit(ctx); err == nil {
		t.Error("rateLimit should return when the context is cancelled")
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"1991-09-24", 1991},
		{"1975", 1975},
		{"", 0},
		{"abc", 0},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			if got := parseYear(tt.date); got != tt.want {
				t.Errorf("parseYear(%q) = %d, want %d", tt.date, got, tt.want)
			}
		})
	}
}
