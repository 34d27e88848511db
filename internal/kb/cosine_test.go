package kb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity_Identical(t *testing.T) {
	v := []float32{0.3, -1.2, 4.5, 0.7}
	require.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-6)
}

func TestCosineSimilarity_Opposite(t *testing.T) {
	v := []float32{1, 2, 3}
	neg := []float32{-1, -2, -3}
	require.InDelta(t, -1.0, CosineSimilarity(v, neg), 1e-6)
}

func TestCosineSimilarity_Orthogonal(t *testing.T) {
	require.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
}

func TestCosineSimilarity_ZeroVector(t *testing.T) {
	// The epsilon keeps the result defined instead of dividing by zero.
	got := CosineSimilarity([]float32{0, 0, 0}, []float32{1, 2, 3})
	require.Equal(t, 0.0, got)
}
