package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asklab/askloop/internal/corpus"
	appErr "github.com/asklab/askloop/internal/pkg/errors"
	"github.com/asklab/askloop/internal/retrieve"
	"github.com/asklab/askloop/internal/tagging"
)

// brokenEmbedder fails with an ordinary transport-style error, not a
// sentinel.
type brokenEmbedder struct{}

func (brokenEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	return nil, errors.New("connection reset by peer")
}

func (brokenEmbedder) ModelName() string {
	return "fixture-embed"
}

func brokenQuestionService(t *testing.T) *QuestionService {
	t.Helper()
	fixture, err := corpus.New(
		[]corpus.Entry{{Text: "how to join two tables in sql", Tags: []string{"sql"}, RankScore: 0.5}},
		[][]float32{{1, 0}},
	)
	require.NoError(t, err)
	scorer := testScorer(t)
	retriever := retrieve.NewRetriever(brokenEmbedder{}, fixture, scorer, 2)
	return NewQuestionService(nil, nil, nil, retriever, tagging.NewNormalizer(nil), scorer,
		"fixture-embed", QuestionServiceConfig{})
}

func TestAnalyzeEmbedderFailureIsUnavailable(t *testing.T) {
	svc := brokenQuestionService(t)
	_, err := svc.Analyze(context.Background(), "how do I index a big table?")
	require.ErrorIs(t, err, appErr.ErrUnavailable)
}

func TestAskEmbedderFailureIsUnavailable(t *testing.T) {
	svc := brokenQuestionService(t)
	// The embed call fails before any persistence, so the nil repos are
	// never touched.
	_, err := svc.Ask(context.Background(), "user-1", "how do I index a big table?")
	require.ErrorIs(t, err, appErr.ErrUnavailable)
}

func TestAnalyzeRejectsEmptyText(t *testing.T) {
	svc := brokenQuestionService(t)
	_, err := svc.Analyze(context.Background(), "   ")
	require.ErrorIs(t, err, appErr.ErrInvalid)
}
