// Package musicbrainz looks up albums on the MusicBrainz Web API. It
// implements recommend.AlbumSource.
package musicbrainz

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"musicreco/internal/recommend"
)

// DefaultURL is the public MusicBrainz Web API root.
const DefaultURL = "https://musicbrainz.org/ws/2"

const (
	releaseSearchLimit = 10
	tagArtistLimit     = 30
	genreArtists       = 5
	albumsPerArtist    = 5
)

// Client is a MusicBrainz Web API client.
type Client struct {
	httpClient  *http.Client
	apiURL      string
	userAgent   string
	interval    time.Duration
	mu          sync.Mutex
	lastRequest time.Time
}

// New creates a new MusicBrainz client. An empty apiURL uses DefaultURL.
func New(apiURL string) *Client {
	if apiURL == "" {
		apiURL = DefaultURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiURL:     strings.TrimRight(apiURL, "/"),
		userAgent:  "musicreco/1.0",
		interval:   time.Second,
	}
}

func (c *Client) Name() string { return "musicbrainz" }

// AlbumsByArtist searches releases credited to artist. Short names are
// restricted to official releases to keep the results on topic. Releases
// are deduplicated by title and the most album-like ones come first.
func (c *Client) AlbumsByArtist(ctx context.Context, artist string, limit int) ([]recommend.AlbumSuggestion, error) {
	artist = strings.TrimSpace(artist)
	if artist == "" {
		return nil, nil
	}

	q := fmt.Sprintf("artist:%q", artist)
	if len(artist) < 4 {
		q += " AND status:official"
	}

	var resp releaseSearchResponse
	params := url.Values{"query": {q}, "limit": {strconv.Itoa(releaseSearchLimit)}}
	if err := c.get(ctx, "release", params, &resp); err != nil {
		return nil, fmt.Errorf("musicbrainz release search failed: %w", err)
	}

	releases := resp.Releases
	sort.SliceStable(releases, func(i, j int) bool {
		return releaseScore(releases[i]) > releaseScore(releases[j])
	})

	seen := make(map[string]bool)
	albums := []recommend.AlbumSuggestion{}
	for _, rel := range releases {
		key := strings.ToLower(rel.Title)
		if rel.Title == "" || seen[key] {
			continue
		}
		seen[key] = true

		name := joinArtistCredits(rel.ArtistCredit)
		if name == "" {
			name = artist
		}
		albums = append(albums, recommend.AlbumSuggestion{
			Title:     rel.Title,
			Artist:    name,
			Year:      parseYear(rel.Date),
			ReleaseID: rel.ID,
		})
		if limit > 0 && len(albums) >= limit {
			break
		}
	}
	return albums, nil
}

// AlbumsByGenre finds artists tagged with genre and collects a few of
// their albums each. A failed lookup for one artist is skipped unless no
// album could be collected at all.
func (c *Client) AlbumsByGenre(ctx context.Context, genre string, limit int) ([]recommend.AlbumSuggestion, error) {
	genre = strings.TrimSpace(genre)
	if genre == "" {
		return nil, nil
	}

	var artists artistSearchResponse
	params := url.Values{"query": {fmt.Sprintf("tag:%q", genre)}, "limit": {strconv.Itoa(tagArtistLimit)}}
	if err := c.get(ctx, "artist", params, &artists); err != nil {
		return nil, fmt.Errorf("musicbrainz artist search failed: %w", err)
	}

	seen := make(map[string]bool)
	albums := []recommend.AlbumSuggestion{}
	var firstErr error
	for i, a := range artists.Artists {
		if i >= genreArtists || (limit > 0 && len(albums) >= limit) {
			break
		}

		var groups releaseGroupBrowseResponse
		params := url.Values{"artist": {a.ID}, "type": {"album"}}
		if err := c.get(ctx, "release-group", params, &groups); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if firstErr == nil {
				firstErr = fmt.Errorf("musicbrainz albums for %s: %w", a.Name, err)
			}
			continue
		}

		taken := 0
		for _, g := range groups.ReleaseGroups {
			if taken >= albumsPerArtist || (limit > 0 && len(albums) >= limit) {
				break
			}
			key := strings.ToLower(a.Name + " - " + g.Title)
			if g.Title == "" || seen[key] {
				continue
			}
			seen[key] = true
			albums = append(albums, recommend.AlbumSuggestion{
				Title:     g.Title,
				Artist:    a.Name,
				Year:      parseYear(g.FirstReleaseDate),
				Genre:     genre,
				ReleaseID: g.ID,
			})
			taken++
		}
	}

	if len(albums) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return albums, nil
}

// get performs a rate-limited GET of path under the API root and decodes
// the JSON body into v.
func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	if err := c.rateLimit(ctx); err != nil {
		return err
	}

	params.Set("fmt", "json")
	reqURL := fmt.Sprintf("%s/%s?%s", c.apiURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create musicbrainz request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.doWithRetry(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("musicbrainz returned %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode musicbrainz response: %w", err)
	}
	return nil
}

// rateLimit enforces MusicBrainz's 1 request/second limit.
func (c *Client) rateLimit(ctx context.Context) error {
	c.mu.Lock()
	wait := c.interval - time.Since(c.lastRequest)
	c.mu.Unlock()

	if wait > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	c.mu.Lock()
	c.lastRequest = time.Now()
	c.mu.Unlock()
	return nil
}

// doWithRetry executes the request, retrying once on 429/503 after the
// delay the server asks for.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
		resp.Body.Close()
		retryAfter := 2
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if parsed, err := strconv.Atoi(ra); err == nil {
				retryAfter = parsed
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(retryAfter) * time.Second):
		}

		c.mu.Lock()
		c.lastRequest = time.Now()
		c.mu.Unlock()
		return c.httpClient.Do(req.Clone(ctx))
	}

	return resp, nil
}

func joinArtistCredits(credits []artistCredit) string {
	var parts []string
	for _, ac := range credits {
		name := ac.Name
		if name == "" {
			name = ac.Artist.Name
		}
		if name != "" {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, ", ")
}

// releaseScore ranks official studio albums above singles, compilations and
// bootlegs.
func releaseScore(rel release) int {
	score := 0

	if rel.Status == "Official" {
		score += 4
	}

	if rel.ReleaseGroup.PrimaryType == "Album" {
		score += 2
	}

	if len(rel.ReleaseGroup.SecondaryTypes) == 0 {
		score += 1
	}

	return score
}

func parseYear(date string) int {
	if len(date) >= 4 {
		if y, err := strconv.Atoi(date[:4]); err == nil {
			return y
		}
	}
	return 0
}

// MusicBrainz API response types

type releaseSearchResponse struct {
	Releases []release `json:"releases"`
}

type artistSearchResponse struct {
	Artists []artistInfo `json:"artists"`
}

type releaseGroupBrowseResponse struct {
	ReleaseGroups []releaseGroup `json:"release-groups"`
}

type artistCredit struct {
	Name   string     `json:"name"`
	Artist artistInfo `json:"artist"`
}

type artistInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type release struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Status       string         `json:"status"`
	Date         string         `json:"date"`
	ArtistCredit []artistCredit `json:"artist-credit"`
	ReleaseGroup releaseGroup   `json:"release-group"`
}

type releaseGroup struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	FirstReleaseDate string   `json:"first-release-date"`
	PrimaryType      string   `json:"primary-type"`
	SecondaryTypes   []string `json:"secondary-types"`
}

var _ recommend.AlbumSource = (*Client)(nil)
