// Package tfidf builds request-scoped TF-IDF vectors over a set of documents
// and compares them by cosine similarity.
//
// Nothing is retained between calls: Vectorize derives the vocabulary and all
// weights from the documents it is given.
package tfidf

import (
	"math"
	"sort"

	"musicreco/internal/text"
)

// Vocabulary is the set of terms seen across one document set.
type Vocabulary struct {
	// Terms is sorted lexically.
	Terms   []string
	DocFreq map[string]int
	Docs    int
}

// IDF returns the smoothed inverse document frequency of term:
// ln((1+D)/(1+df)) + 1. Unknown terms return 0.
func (v Vocabulary) IDF(term string) float64 {
	df, ok := v.DocFreq[term]
	if !ok {
		return 0
	}
	return math.Log(float64(1+v.Docs)/float64(1+df)) + 1
}

// Len returns the vocabulary size.
func (v Vocabulary) Len() int {
	return len(v.Terms)
}

// Vectorize tokenizes every document, builds the vocabulary and returns one
// L2-normalized TF-IDF vector per document, in input order. Term frequency is
// the raw count within the document. Documents without any token, including
// the case where the whole vocabulary is empty, get the zero vector.
func Vectorize(docs []string) (Vocabulary, []Vector) {
	vocab := Vocabulary{
		DocFreq: make(map[string]int),
		Docs:    len(docs),
	}

	counts := make([]map[string]int, len(docs))
	for i, doc := range docs {
		counts[i] = text.TermCounts(text.Tokenize(doc))
		for term := range counts[i] {
			vocab.DocFreq[term]++
		}
	}

	vocab.Terms = make([]string, 0, len(vocab.DocFreq))
	for term := range vocab.DocFreq {
		vocab.Terms = append(vocab.Terms, term)
	}
	sort.Strings(vocab.Terms)

	vectors := make([]Vector, len(docs))
	for i, tf := range counts {
		weights := make(map[string]float64, len(tf))
		for term, n := range tf {
			weights[term] = float64(n) * vocab.IDF(term)
		}
		vectors[i] = NewVector(weights).Normalize()
	}

	return vocab, vectors
}

// SimilarityRow returns the cosine similarity between vectors[ref] and every
// vector, including ref itself. Vectors must be L2-normalized, as returned by
// Vectorize, so the dot product is the cosine.
func SimilarityRow(vectors []Vector, ref int) []float64 {
	scores := make([]float64, len(vectors))
	if ref < 0 || ref >= len(vectors) {
		return scores
	}
	target := vectors[ref]
	for i, v := range vectors {
		scores[i] = clamp(Dot(target, v))
	}
	return scores
}
