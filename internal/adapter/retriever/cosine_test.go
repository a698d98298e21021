package retriever

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a        []float32
		b        []float32
		expected float64
	}{
		{
			name:     "identical",
			a:        []float32{1, 2, 3},
			b:        []float32{1, 2, 3},
			expected: 1.0,
		},
		{
			name:     "scaled",
			a:        []float32{1, 2, 3},
			b:        []float32{2, 4, 6},
			expected: 1.0,
		},
		{
			name:     "orthogonal",
			a:        []float32{1, 0},
			b:        []float32{0, 1},
			expected: 0.0,
		},
		{
			name:     "opposite",
			a:        []float32{1, 0},
			b:        []float32{-1, 0},
			expected: -1.0,
		},
		{
			name:     "diagonal",
			a:        []float32{1, 1},
			b:        []float32{1, 0},
			expected: 1 / math.Sqrt(2),
		},
		{
			name:     "zero vector",
			a:        []float32{0, 0},
			b:        []float32{1, 0},
			expected: 0.0,
		},
		{
			name:     "length mismatch",
			a:        []float32{1, 0, 0},
			b:        []float32{1, 0},
			expected: 0.0,
		},
		{
			name:     "empty",
			a:        []float32{},
			b:        []float32{},
			expected: 0.0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := CosineSimilarity(tc.a, tc.b)
			if !floatEquals(result, tc.expected, 1e-6) {
				t.Errorf("CosineSimilarity(%v, %v) = %f, expected %f", tc.a, tc.b, result, tc.expected)
			}
		})
	}
}

func TestBestMatch(t *testing.T) {
	query := []float32{1, 0}

	idx, score := BestMatch(query, [][]float32{{0, 1}, {1, 1}, {1, 0}, {1, 0}})
	if idx != 2 {
		t.Errorf("expected index 2 (first maximum), got %d", idx)
	}
	if !floatEquals(score, 1.0, 1e-9) {
		t.Errorf("expected score 1.0, got %f", score)
	}

	// All-negative scores still produce a winner.
	idx, score = BestMatch(query, [][]float32{{-1, 0}, {-1, 1}})
	if idx != 1 {
		t.Errorf("expected index 1, got %d", idx)
	}
	if score >= 0 {
		t.Errorf("expected negative score, got %f", score)
	}

	idx, _ = BestMatch(query, nil)
	if idx != -1 {
		t.Errorf("expected -1 for no candidates, got %d", idx)
	}
}

func floatEquals(a, b, tolerance float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < tolerance
}
