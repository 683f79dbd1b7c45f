package library

import (
	"context"
	"sort"
	"strings"

	"github.com/xrash/smetrics"
)

// MatchThreshold is the minimum Jaro-Winkler similarity for Find.
const MatchThreshold = 0.7

// Match is a catalog song scored against a lookup query.
type Match struct {
	Song  Song    `json:"song"`
	Score float64 `json:"score"`
}

// Find looks songs up by title, comparing the query with both the title and
// "artist title". Release annotations such as "(Remastered)" are ignored on
// both sides. Results are best first; equal scores keep catalog order.
func (s *Store) Find(ctx context.Context, query string, limit int) ([]Match, error) {
	songs, err := s.Songs(ctx)
	if err != nil {
		return nil, err
	}
	return MatchSongs(songs, query, limit), nil
}

// MatchSongs scores songs against query and returns up to limit matches.
func MatchSongs(songs []Song, query string, limit int) []Match {
	q := matchKey(query)
	matches := []Match{}
	if q == "" || limit <= 0 {
		return matches
	}

	for _, song := range songs {
		title := matchKey(song.Title)
		full := strings.ToLower(song.Artist) + " " + title
		score := smetrics.JaroWinkler(q, title, 0.7, 4)
		if alt := smetrics.JaroWinkler(q, full, 0.7, 4); alt > score {
			score = alt
		}
		if score >= MatchThreshold {
			matches = append(matches, Match{Song: song, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
