package retrieve

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCosineSimilaritySymmetric(t *testing.T) {
	a := []float32{0.3, -0.2, 0.9, 0.1}
	b := []float32{-0.5, 0.8, 0.2, 0.4}
	require.InDelta(t, CosineSimilarity(a, b), CosineSimilarity(b, a), 1e-12)
}

func TestCosineSimilarityIdentical(t *testing.T) {
	a := []float32{1, 2, 3}
	require.InDelta(t, 1.0, CosineSimilarity(a, a), 1e-9)
}

func TestCosineSimilarityOpposite(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{-1, 0}
	require.InDelta(t, -1.0, CosineSimilarity(a, b), 1e-9)
}

func TestCosineSimilarityOrthogonal(t *testing.T) {
	require.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-12)
}

func TestCosineSimilarityDegenerateInputs(t *testing.T) {
	require.Equal(t, 0.0, CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}))
	require.Equal(t, 0.0, CosineSimilarity([]float32{0, 0}, []float32{1, 2}))
	require.Equal(t, 0.0, CosineSimilarity(nil, nil))
}
