package tagging

import (
	"context"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/asklab/askloop/internal/ai"
)

// Keywords below this extractor relevance are discarded.
const minKeywordScore = 0.3

// Extractor is the external keyword-extraction capability. It may fail;
// the normalizer degrades to pattern matching alone.
type Extractor interface {
	ExtractKeywords(ctx context.Context, text string, topN int) ([]ai.Keyword, error)
}

// Normalizer merges extracted keywords with pattern-matched category tags
// into a deduplicated, bounded tag list.
type Normalizer struct {
	extractor Extractor
}

func NewNormalizer(extractor Extractor) *Normalizer {
	return &Normalizer{extractor: extractor}
}

// Normalize returns at most maxTags lower-cased tags for text, preserving
// first-occurrence order and deduplicating case-insensitively. An
// extractor failure is logged and swallowed; it never aborts the caller.
func (n *Normalizer) Normalize(ctx context.Context, text string, maxTags int) []string {
	if maxTags <= 0 {
		maxTags = 8
	}

	var tags []string
	seen := make(map[string]bool)
	appendTag := func(tag string) {
		key := strings.ToLower(strings.TrimSpace(tag))
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		tags = append(tags, key)
	}

	if n.extractor != nil {
		keywords, err := n.extractor.ExtractKeywords(ctx, text, maxTags)
		if err != nil {
			logutil.GetLogger(ctx).Warn("keyword extraction failed, falling back to pattern tags", zap.Error(err))
		} else {
			for _, kw := range keywords {
				if kw.Score > minKeywordScore {
					appendTag(kw.Phrase)
				}
			}
		}
	}

	textLower := strings.ToLower(text)
	for _, cat := range categories {
		for _, pattern := range cat.patterns {
			if strings.Contains(textLower, pattern) {
				appendTag(cat.name)
				break
			}
		}
	}

	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	return tags
}
