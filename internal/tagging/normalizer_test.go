package tagging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asklab/askloop/internal/ai"
)

type fakeExtractor struct {
	keywords []ai.Keyword
	err      error
}

func (f *fakeExtractor) ExtractKeywords(ctx context.Context, text string, topN int) ([]ai.Keyword, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.keywords, nil
}

func TestNormalizePatternFallbackOnExtractorFailure(t *testing.T) {
	n := NewNormalizer(&fakeExtractor{err: errors.New("model offline")})
	tags := n.Normalize(context.Background(), "How do I use async/await in python with flask?", 8)

	require.Contains(t, tags, "python")
	// "await ... with" does not literally contain "web" or "api" patterns;
	// only categories whose patterns occur as substrings may appear.
	for _, tag := range tags {
		require.NotEqual(t, "docker", tag)
	}
}

func TestNormalizeMergesExtractorAndPatterns(t *testing.T) {
	n := NewNormalizer(&fakeExtractor{keywords: []ai.Keyword{
		{Phrase: "Flask", Score: 0.9},
		{Phrase: "routing", Score: 0.8},
		{Phrase: "stopword", Score: 0.1},
	}})
	tags := n.Normalize(context.Background(), "flask routing question in python", 8)

	require.Equal(t, "flask", tags[0])
	require.Equal(t, "routing", tags[1])
	require.Contains(t, tags, "python")
	require.NotContains(t, tags, "stopword")
}

func TestNormalizeDeduplicatesCaseInsensitive(t *testing.T) {
	n := NewNormalizer(&fakeExtractor{keywords: []ai.Keyword{
		{Phrase: "Python", Score: 0.9},
		{Phrase: "PYTHON", Score: 0.8},
	}})
	tags := n.Normalize(context.Background(), "a python question", 8)

	count := 0
	for _, tag := range tags {
		if tag == "python" {
			count++
		}
	}
	require.Equal(t, 1, count)
}

func TestNormalizeRespectsMaxTags(t *testing.T) {
	keywords := []ai.Keyword{
		{Phrase: "one", Score: 0.9},
		{Phrase: "two", Score: 0.9},
		{Phrase: "three", Score: 0.9},
		{Phrase: "four", Score: 0.9},
		{Phrase: "five", Score: 0.9},
	}
	n := NewNormalizer(&fakeExtractor{keywords: keywords})
	tags := n.Normalize(context.Background(), "docker kubernetes git sql python web api testing", 3)
	require.LessOrEqual(t, len(tags), 3)
}

func TestNormalizeNoExtractor(t *testing.T) {
	n := NewNormalizer(nil)
	tags := n.Normalize(context.Background(), "deploying with docker and kubernetes", 8)
	require.Contains(t, tags, "docker")
}

func TestNormalizeCategoryOrderStable(t *testing.T) {
	n := NewNormalizer(nil)
	first := n.Normalize(context.Background(), "python javascript java sql docker", 8)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, n.Normalize(context.Background(), "python javascript java sql docker", 8))
	}
}
