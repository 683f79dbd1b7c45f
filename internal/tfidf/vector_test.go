package tfidf

import (
	"math"
	"testing"
)

func TestNewVector(t *testing.T) {
	v := NewVector(map[string]float64{
		"beta": 2.0, "alpha": 1.0, "gamma": 3.0,
	})

	if len(v) != 3 {
		t.Fatalf("len = %d, want 3", len(v))
	}
	// Must be sorted by Word
	if v[0].Word != "alpha" || v[1].Word != "beta" || v[2].Word != "gamma" {
		t.Errorf("not sorted: %v", v)
	}
}

func TestNewVectorEmpty(t *testing.T) {
	if v := NewVector(nil); v != nil {
		t.Errorf("NewVector(nil) = %v, want nil", v)
	}
	if v := NewVector(map[string]float64{}); v != nil {
		t.Errorf("NewVector(empty) = %v, want nil", v)
	}
}

func TestNormalize(t *testing.T) {
	v := NewVector(map[string]float64{"alpha": 3.0, "beta": 4.0}).Normalize()
	if math.Abs(v.Norm()-1.0) > 1e-12 {
		t.Errorf("norm = %f, want 1.0", v.Norm())
	}
	if math.Abs(v[0].Weight-0.6) > 1e-12 || math.Abs(v[1].Weight-0.8) > 1e-12 {
		t.Errorf("weights = %v, want [0.6 0.8]", v)
	}

	if z := Vector(nil).Normalize(); z != nil {
		t.Errorf("zero vector normalized to %v, want nil", z)
	}
}

func TestCosineSimilarityIdentical(t *testing.T) {
	v := NewVector(map[string]float64{"rock": 1.0, "song": 2.0})
	sim := CosineSimilarity(v, v)
	if math.Abs(sim-1.0) > 1e-10 {
		t.Errorf("identical vectors: similarity = %f, want 1.0", sim)
	}
}

func TestCosineSimilarityOrthogonal(t *testing.T) {
	a := NewVector(map[string]float64{"rock": 1.0, "alpha": 1.0})
	b := NewVector(map[string]float64{"jazz": 1.0, "gamma": 1.0})
	if sim := CosineSimilarity(a, b); sim != 0.0 {
		t.Errorf("orthogonal vectors: similarity = %f, want 0.0", sim)
	}
}

func TestCosineSimilarityKnownValue(t *testing.T) {
	// a=[3,4,0], b=[0,4,3]: dot 16, norms 5 and 5, cos = 0.64
	a := NewVector(map[string]float64{"alpha": 3.0, "beta": 4.0})
	b := NewVector(map[string]float64{"beta": 4.0, "gamma": 3.0})
	if sim := CosineSimilarity(a, b); math.Abs(sim-0.64) > 1e-10 {
		t.Errorf("known value: similarity = %f, want 0.64", sim)
	}
}

func TestCosineSimilarityEmpty(t *testing.T) {
	a := NewVector(map[string]float64{"rock": 1.0})
	if CosineSimilarity(a, nil) != 0.0 {
		t.Error("similarity with nil should be 0")
	}
	if CosineSimilarity(nil, nil) != 0.0 {
		t.Error("nil/nil similarity should be 0")
	}
}
