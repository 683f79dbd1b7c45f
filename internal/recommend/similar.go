package recommend

import (
	"sort"

	"musicreco/internal/corpus"
	"musicreco/internal/tfidf"
)

// Scored pairs a corpus index with its similarity to the reference track.
type Scored struct {
	Index int
	Score float64
}

// ScoreTracks vectorizes the feature text of every track and returns the
// similarity of each one to the reference, ordered by score descending.
// Equal scores keep corpus order. The reference itself is included.
func ScoreTracks(c *corpus.Corpus) []Scored {
	if c == nil || c.Len() == 0 {
		return nil
	}

	texts := make([]string, c.Len())
	for i, t := range c.Tracks {
		texts[i] = t.FeatureText()
	}
	_, vectors := tfidf.Vectorize(texts)
	row := tfidf.SimilarityRow(vectors, c.Reference)

	scored := make([]Scored, len(row))
	for i, s := range row {
		scored[i] = Scored{Index: i, Score: s}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// RankSimilar returns up to m tracks most similar to the reference track,
// excluding the reference itself.
func RankSimilar(c *corpus.Corpus, m int) []TrackRecommendation {
	out := []TrackRecommendation{}
	if m <= 0 {
		return out
	}

	for _, s := range ScoreTracks(c) {
		if s.Index == c.Reference {
			continue
		}
		if len(out) == m {
			break
		}
		t := c.Tracks[s.Index]
		out = append(out, TrackRecommendation{
			ID:     t.ID,
			Title:  t.Title,
			Artist: t.Artist,
			Genre:  t.Genre,
			Album:  t.Album,
		})
	}
	return out
}
