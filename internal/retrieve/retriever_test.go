package retrieve

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asklab/askloop/internal/corpus"
	"github.com/asklab/askloop/internal/rank"
)

type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("no fixture vector for %q", text)
}

func (f *fakeEmbedder) ModelName() string {
	return "fixture-embed"
}

func fixtureCorpus(t *testing.T) *corpus.Corpus {
	t.Helper()
	entries := []corpus.Entry{
		{Text: "how to merge pandas dataframes in python", Tags: []string{"python", "pandas"}, RankScore: 0.8},
		{Text: "how to join tables in sql", Tags: []string{"sql"}, RankScore: 0.7},
		{Text: "docker container will not start", Tags: []string{"docker"}, RankScore: 0.6},
	}
	embeddings := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	c, err := corpus.New(entries, embeddings)
	require.NoError(t, err)
	return c
}

func newFixtureRetriever(t *testing.T, embedder *fakeEmbedder) *Retriever {
	t.Helper()
	scorer, err := rank.NewScorer(rank.DefaultWeights())
	require.NoError(t, err)
	return NewRetriever(embedder, fixtureCorpus(t), scorer, 2)
}

func TestSearchOrdersBySimilarity(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"merging dataframes": {0.9, 0.4, 0.1},
	}}
	r := newFixtureRetriever(t, embedder)

	hits, err := r.Search(context.Background(), "merging dataframes", 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	require.Equal(t, "how to merge pandas dataframes in python", hits[0].Question)
	require.GreaterOrEqual(t, hits[0].Similarity, hits[1].Similarity)
	require.InDelta(t, 0.8, hits[0].RankScore, 1e-9)
	require.Equal(t, []string{"python", "pandas"}, hits[0].Tags)
}

func TestSearchNeverExceedsTopK(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{"q": {1, 1, 1}}}
	r := newFixtureRetriever(t, embedder)

	hits, err := r.Search(context.Background(), "q", 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	hits, err = r.Search(context.Background(), "q", 10)
	require.NoError(t, err)
	require.Len(t, hits, 3)
}

func TestSearchTieBreakKeepsCorpusOrder(t *testing.T) {
	// Equidistant query: every row scores the same, so the corpus's
	// original row order must survive the sort.
	embedder := &fakeEmbedder{vectors: map[string][]float32{"tie": {1, 1, 1}}}
	r := newFixtureRetriever(t, embedder)

	hits, err := r.Search(context.Background(), "tie", 3)
	require.NoError(t, err)
	require.Equal(t, "how to merge pandas dataframes in python", hits[0].Question)
	require.Equal(t, "how to join tables in sql", hits[1].Question)
	require.Equal(t, "docker container will not start", hits[2].Question)
}

func TestSearchFailsWhenEmbedderFails(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("embedder down")}
	r := newFixtureRetriever(t, embedder)

	_, err := r.Search(context.Background(), "anything", 5)
	require.Error(t, err)
}

func TestProcessNewDerivesTagRelevance(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"pandas merge question": {1, 0.2, 0},
	}}
	r := newFixtureRetriever(t, embedder)

	// Auto-tags: "python" appears in the top hits' tag lists, "golang"
	// does not -> relevance = 0.5 + (1/2)*0.5 = 0.75.
	res, err := r.ProcessNew(context.Background(), "pandas merge question", []string{"python", "golang"}, 5)
	require.NoError(t, err)
	require.InDelta(t, 0.75, res.TagRelevance, 1e-9)
	require.NotEmpty(t, res.SimilarQuestions)
	require.Equal(t, []float32{1, 0.2, 0}, res.Embedding)

	// Base score uses the top hit similarity, the configured initial
	// answer count (2) and view count 1.
	topSim := res.SimilarQuestions[0].Similarity
	scorer, err := rank.NewScorer(rank.DefaultWeights())
	require.NoError(t, err)
	require.InDelta(t, scorer.Score(topSim, 2, 1, 0.75), res.BaseScore, 1e-9)
}

func TestProcessNewDefaultRelevanceWithoutTags(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{"q": {0, 1, 0}}}
	r := newFixtureRetriever(t, embedder)

	res, err := r.ProcessNew(context.Background(), "q", nil, 5)
	require.NoError(t, err)
	require.InDelta(t, 0.5, res.TagRelevance, 1e-9)
}

func TestSimilarLiveThresholdIsExclusive(t *testing.T) {
	r := newFixtureRetriever(t, &fakeEmbedder{})
	target := []float32{1, 0, 0, 0}

	// Integer vectors keep the arithmetic exact: dot=3, |b|=10 gives a
	// cosine of exactly 0.3, which must be excluded; dot=4 gives 0.4.
	candidates := []LiveCandidate{
		{ID: "at", Text: "at threshold", Embedding: []float32{3, 9, 3, 1}},
		{ID: "above", Text: "above threshold", Embedding: []float32{4, 8, 4, 2}},
		{ID: "far", Text: "unrelated", Embedding: []float32{0, 10, 0, 0}},
	}
	require.Equal(t, 0.3, CosineSimilarity(target, candidates[0].Embedding))

	hits := r.SimilarLive(target, candidates)
	require.Len(t, hits, 1)
	require.Equal(t, "above", hits[0].ID)
	require.Greater(t, hits[0].Similarity, 0.3)
}

func TestSimilarLiveOrdersByCompositeScore(t *testing.T) {
	r := newFixtureRetriever(t, &fakeEmbedder{})
	target := []float32{1, 0}

	// "near" is semantically closer, but "busy" has many answers and a
	// decent similarity; the composite score decides the order.
	candidates := []LiveCandidate{
		{ID: "near", Text: "very close", AnswerCount: 0, Embedding: []float32{0.99, 0.14}},
		{ID: "busy", Text: "popular", AnswerCount: 10, Embedding: []float32{0.97, 0.24}},
	}
	hits := r.SimilarLive(target, candidates)
	require.Len(t, hits, 2)
	require.Equal(t, "busy", hits[0].ID)
	require.Greater(t, hits[0].RankScore, hits[1].RankScore)
}

func TestSimilarLiveCapsAtTen(t *testing.T) {
	r := newFixtureRetriever(t, &fakeEmbedder{})
	target := []float32{1, 0}
	var candidates []LiveCandidate
	for i := 0; i < 15; i++ {
		candidates = append(candidates, LiveCandidate{
			ID:        fmt.Sprintf("q%d", i),
			Embedding: []float32{1, 0},
			Ctime:     int64(i),
		})
	}
	hits := r.SimilarLive(target, candidates)
	require.Len(t, hits, 10)
	// Identical scores: newest first.
	require.Equal(t, "q14", hits[0].ID)
}

func TestSimilarLiveSkipsMissingEmbeddings(t *testing.T) {
	r := newFixtureRetriever(t, &fakeEmbedder{})
	candidates := []LiveCandidate{
		{ID: "no-embedding"},
		{ID: "with", Embedding: []float32{1, 0}},
	}
	hits := r.SimilarLive([]float32{1, 0}, candidates)
	require.Len(t, hits, 1)
	require.Equal(t, "with", hits[0].ID)
}
