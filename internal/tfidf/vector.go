package tfidf

import (
	"math"
	"sort"
)

// Term is a single term-weight pair in a sparse vector.
type Term struct {
	Word   string
	Weight float64
}

// Vector is a sparse TF-IDF vector, always sorted by Word for merge-join operations.
// A nil Vector is the zero vector.
type Vector []Term

// NewVector creates a sorted Vector from a term-weight map.
func NewVector(weights map[string]float64) Vector {
	if len(weights) == 0 {
		return nil
	}
	v := make(Vector, 0, len(weights))
	for word, w := range weights {
		v = append(v, Term{Word: word, Weight: w})
	}
	sort.Slice(v, func(i, j int) bool {
		return v[i].Word < v[j].Word
	})
	return v
}

// Norm returns the Euclidean length of v.
func (v Vector) Norm() float64 {
	var sum float64
	for _, t := range v {
		sum += t.Weight * t.Weight
	}
	return math.Sqrt(sum)
}

// Normalize returns v scaled to unit length. The zero vector stays zero.
func (v Vector) Normalize() Vector {
	n := v.Norm()
	if n == 0 {
		return nil
	}
	out := make(Vector, len(v))
	for i, t := range v {
		out[i] = Term{Word: t.Word, Weight: t.Weight / n}
	}
	return out
}

// Dot computes the dot product of two sorted sparse vectors with a merge-join.
func Dot(a, b Vector) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Word == b[j].Word:
			dot += a[i].Weight * b[j].Weight
			i++
			j++
		case a[i].Word < b[j].Word:
			i++
		default:
			j++
		}
	}
	return dot
}

// CosineSimilarity computes the cosine of the angle between two sorted sparse vectors.
//
// Returns 0.0 if either vector is empty (undefined angle).
// Returns 1.0 for identical non-zero vectors.
func CosineSimilarity(a, b Vector) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	return clamp(Dot(a, b) / (na * nb))
}

// clamp keeps rounding noise from pushing a similarity outside [0, 1].
func clamp(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
