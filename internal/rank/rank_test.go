package rank

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	scorer, err := NewScorer(DefaultWeights())
	require.NoError(t, err)
	return scorer
}

func TestDefaultWeightsValid(t *testing.T) {
	require.NoError(t, DefaultWeights().Validate())
}

func TestWeightsValidateRejectsBadSum(t *testing.T) {
	w := Weights{Similarity: 0.5, TagRelevance: 0.5, Answers: 0.5, Popularity: 0.5}
	require.Error(t, w.Validate())

	w = Weights{Similarity: -0.1, TagRelevance: 0.6, Answers: 0.3, Popularity: 0.2}
	require.Error(t, w.Validate())
}

func TestScoreSaturationPoint(t *testing.T) {
	scorer := newTestScorer(t)
	require.Equal(t, 1.0, scorer.Score(1.0, AnswerSaturation, ViewSaturation, 1.0))
	// Past saturation the engagement bonuses stop growing.
	require.Equal(t, 1.0, scorer.Score(1.0, 500, 10000, 1.0))
}

func TestScoreKnownScenario(t *testing.T) {
	scorer := newTestScorer(t)
	// 0.8*0.4 + 1.0*0.3 + 0.15 + 0.15 = 0.92
	require.InDelta(t, 0.92, scorer.Score(0.8, 10, 100, 1.0), 1e-9)
}

func TestScoreRange(t *testing.T) {
	scorer := newTestScorer(t)
	cases := []struct {
		similarity   float64
		answers      int
		views        int
		tagRelevance float64
	}{
		{0, 0, 0, 0},
		{1, 0, 0, 0},
		{0.5, 3, 40, 0.5},
		{1, 100, 100000, 1},
		{0.3, -5, -10, 0.6},
	}
	for _, tc := range cases {
		got := scorer.Score(tc.similarity, tc.answers, tc.views, tc.tagRelevance)
		require.GreaterOrEqual(t, got, 0.0)
		require.LessOrEqual(t, got, 1.0)
	}
}

func TestScoreMonotonicInEachInput(t *testing.T) {
	scorer := newTestScorer(t)
	base := scorer.Score(0.4, 2, 10, 0.5)

	require.GreaterOrEqual(t, scorer.Score(0.5, 2, 10, 0.5), base)
	require.GreaterOrEqual(t, scorer.Score(0.4, 3, 10, 0.5), base)
	require.GreaterOrEqual(t, scorer.Score(0.4, 2, 20, 0.5), base)
	require.GreaterOrEqual(t, scorer.Score(0.4, 2, 10, 0.6), base)
}

func TestScoreClampsNegativeCounts(t *testing.T) {
	scorer := newTestScorer(t)
	require.Equal(t, scorer.Score(0.4, 0, 0, 0.5), scorer.Score(0.4, -3, -7, 0.5))
}

func TestScoreDeterministic(t *testing.T) {
	scorer := newTestScorer(t)
	first := scorer.Score(0.7, 4, 55, 0.6)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, scorer.Score(0.7, 4, 55, 0.6))
	}
}
