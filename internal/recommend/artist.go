package recommend

import "musicreco/internal/corpus"

// MatchArtists suggests up to n artists other than the reference artist.
//
// The corpus is deduplicated by artist keeping the first track of each artist
// in corpus order. Candidates share the reference genre; when none do, every
// other artist is a candidate. The first n candidates are returned in corpus
// order, not ranked by similarity.
func MatchArtists(c *corpus.Corpus, n int) []ArtistRecommendation {
	out := []ArtistRecommendation{}
	if c == nil || c.Len() == 0 || n <= 0 {
		return out
	}
	ref := c.Ref()

	seen := make(map[string]bool)
	var others []corpus.Track
	for _, t := range c.Tracks {
		if seen[t.Artist] {
			continue
		}
		seen[t.Artist] = true
		if t.Artist != ref.Artist {
			others = append(others, t)
		}
	}

	candidates := make([]corpus.Track, 0, len(others))
	for _, t := range others {
		if t.Genre == ref.Genre {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		candidates = others
	}

	for _, t := range candidates {
		if len(out) == n {
			break
		}
		out = append(out, ArtistRecommendation{Artist: t.Artist, Genre: t.Genre})
	}
	return out
}
