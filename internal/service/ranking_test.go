package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asklab/askloop/internal/model"
	"github.com/asklab/askloop/internal/rank"
)

func testScorer(t *testing.T) *rank.Scorer {
	t.Helper()
	scorer, err := rank.NewScorer(rank.DefaultWeights())
	require.NoError(t, err)
	return scorer
}

func makeStats(id string, tags []string, score float64, answers int, ctime int64) model.QuestionWithStats {
	return model.QuestionWithStats{
		Question: model.Question{
			ID:        id,
			Text:      "question " + id,
			AutoTags:  tags,
			RankScore: score,
			Ctime:     ctime,
		},
		AnswerCount: answers,
	}
}

func TestRankListingReordersByLiveAnswers(t *testing.T) {
	scorer := testScorer(t)
	// q2 has a lower persisted score but enough answers to overtake q1.
	items := []model.QuestionWithStats{
		makeStats("q1", []string{"python"}, 0.60, 0, 100),
		makeStats("q2", []string{"sql"}, 0.55, 10, 200),
	}
	ranked := rankListing(scorer, items)
	require.Len(t, ranked, 2)
	require.Equal(t, "q2", ranked[0].ID)
	require.Equal(t, "q1", ranked[1].ID)
	require.Equal(t, scorer.Score(0.55, 10, 1, rank.DefaultTagRelevance), ranked[0].RankScore)
}

func TestRankListingTieBreaksNewestFirst(t *testing.T) {
	scorer := testScorer(t)
	items := []model.QuestionWithStats{
		makeStats("old", nil, 0.5, 3, 100),
		makeStats("new", nil, 0.5, 3, 200),
	}
	ranked := rankListing(scorer, items)
	require.Equal(t, "new", ranked[0].ID)
	require.Equal(t, "old", ranked[1].ID)
}

func TestFilterByPreferenceKeepsOnlyMatchingTags(t *testing.T) {
	scorer := testScorer(t)
	items := []model.QuestionWithStats{
		makeStats("q1", []string{"python", "api"}, 0.5, 2, 100),
		makeStats("q2", []string{"docker"}, 0.9, 2, 200),
		makeStats("q3", []string{"Python"}, 0.4, 2, 300),
	}
	filtered := filterByPreference(scorer, []string{"python"}, items)
	require.Len(t, filtered, 2)
	for _, item := range filtered {
		require.NotEqual(t, "q2", item.ID)
	}
}

func TestFilterByPreferenceMatchIsCaseInsensitive(t *testing.T) {
	scorer := testScorer(t)
	items := []model.QuestionWithStats{
		makeStats("q1", []string{"Machine-Learning"}, 0.5, 0, 100),
	}
	filtered := filterByPreference(scorer, []string{"machine-learning"}, items)
	require.Len(t, filtered, 1)
	require.Equal(t, "q1", filtered[0].ID)
}

func TestFilterByPreferenceUsesPreferenceBonus(t *testing.T) {
	scorer := testScorer(t)
	items := []model.QuestionWithStats{
		makeStats("q1", []string{"python"}, 0.5, 4, 100),
	}
	filtered := filterByPreference(scorer, []string{"python"}, items)
	require.Len(t, filtered, 1)
	require.Equal(t, scorer.Score(0.5, 4, 1, rank.PreferenceTagRelevance), filtered[0].RankScore)
}

func TestFilterByPreferenceFallbackIsFirstTenUnchanged(t *testing.T) {
	scorer := testScorer(t)
	items := make([]model.QuestionWithStats, 0, 12)
	for i := 0; i < 12; i++ {
		items = append(items, makeStats(
			string(rune('a'+i)),
			[]string{"docker"},
			0.5+float64(i)*0.01,
			i,
			int64(100+i),
		))
	}
	filtered := filterByPreference(scorer, []string{"haskell"}, items)
	require.Len(t, filtered, 10)
	for i := 0; i < 10; i++ {
		// Order and scores are untouched by the fallback.
		require.Equal(t, items[i].ID, filtered[i].ID)
		require.Equal(t, items[i].RankScore, filtered[i].RankScore)
	}
}

func TestFilterByPreferenceFallbackWithFewRows(t *testing.T) {
	scorer := testScorer(t)
	items := []model.QuestionWithStats{
		makeStats("q1", []string{"docker"}, 0.5, 0, 100),
		makeStats("q2", []string{"git"}, 0.4, 0, 200),
	}
	filtered := filterByPreference(scorer, []string{"rust"}, items)
	require.Len(t, filtered, 2)
	require.Equal(t, "q1", filtered[0].ID)
}

func TestFilterByPreferenceEmptyInput(t *testing.T) {
	scorer := testScorer(t)
	filtered := filterByPreference(scorer, []string{"python"}, nil)
	require.Empty(t, filtered)
}
