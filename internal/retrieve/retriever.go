package retrieve

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/asklab/askloop/internal/ai"
	"github.com/asklab/askloop/internal/corpus"
	"github.com/asklab/askloop/internal/rank"
)

const (
	// Corpus previews are truncated for display.
	previewRunes = 200

	// Live-similarity candidates at or below this similarity are dropped.
	liveSimilarityThreshold = 0.3

	// Live-similarity responses are capped.
	liveSimilarityLimit = 10
)

// SearchHit is one reference-corpus match for the search surface.
type SearchHit struct {
	Question   string   `json:"question"`
	Similarity float64  `json:"similarity"`
	RankScore  float64  `json:"rank_score"`
	Tags       []string `json:"tags"`
}

// NewQuestionHit is one reference-corpus match shown alongside a freshly
// posted question.
type NewQuestionHit struct {
	Question   string   `json:"question"`
	Similarity float64  `json:"similarity"`
	Tags       []string `json:"tags"`
}

// NewQuestionResult is the ranking outcome for a freshly posted question.
type NewQuestionResult struct {
	SimilarQuestions []NewQuestionHit
	TagRelevance     float64
	BaseScore        float64
	Embedding        []float32
}

// LiveCandidate is a persisted question considered by the live-similarity
// view.
type LiveCandidate struct {
	ID          string
	Text        string
	Tags        []string
	AnswerCount int
	Ctime       int64
	Embedding   []float32
}

// LiveHit is one live-similarity result, ordered by composite score.
type LiveHit struct {
	ID          string   `json:"id"`
	Question    string   `json:"question"`
	Tags        []string `json:"tags"`
	Similarity  float64  `json:"similarity"`
	RankScore   float64  `json:"rank_score"`
	AnswerCount int      `json:"answer_count"`
}

// Retriever ranks query text against the static reference corpus and
// against live question embeddings. The corpus is injected at
// construction and never mutated.
type Retriever struct {
	embedder           ai.IEmbedder
	corpus             *corpus.Corpus
	scorer             *rank.Scorer
	initialAnswerCount int
}

func NewRetriever(embedder ai.IEmbedder, c *corpus.Corpus, scorer *rank.Scorer, initialAnswerCount int) *Retriever {
	return &Retriever{
		embedder:           embedder,
		corpus:             c,
		scorer:             scorer,
		initialAnswerCount: initialAnswerCount,
	}
}

// Search embeds the query and returns the topK closest corpus entries in
// descending similarity. Ties keep the corpus's original row order.
func (r *Retriever) Search(ctx context.Context, query string, topK int) ([]SearchHit, error) {
	indices, sims, err := r.scanCorpus(ctx, query, topK)
	if err != nil {
		return nil, err
	}
	hits := make([]SearchHit, 0, len(indices))
	for i, idx := range indices {
		entry := r.corpus.Entry(idx)
		hits = append(hits, SearchHit{
			Question:   truncate(entry.Text, previewRunes),
			Similarity: sims[i],
			RankScore:  entry.RankScore,
			Tags:       entry.Tags,
		})
	}
	return hits, nil
}

// ProcessNew ranks a freshly posted question against the corpus,
// derives tag relevance from how often the question's auto-tags appear
// among the top hits, and computes the base rank score persisted with the
// question.
func (r *Retriever) ProcessNew(ctx context.Context, text string, autoTags []string, topK int) (*NewQuestionResult, error) {
	queryEmb, err := r.embed(ctx, text, "RETRIEVAL_DOCUMENT")
	if err != nil {
		return nil, err
	}
	indices, sims := r.rankAll(queryEmb, topK)

	tagFrequency := make(map[string]int)
	similar := make([]NewQuestionHit, 0, len(indices))
	for i, idx := range indices {
		entry := r.corpus.Entry(idx)
		for _, tag := range entry.Tags {
			tagFrequency[strings.ToLower(tag)]++
		}
		similar = append(similar, NewQuestionHit{
			Question:   truncate(entry.Text, previewRunes),
			Similarity: sims[i],
			Tags:       entry.Tags,
		})
	}

	tagRelevance := rank.DefaultTagRelevance
	if len(autoTags) > 0 && len(tagFrequency) > 0 {
		matches := 0
		for _, tag := range autoTags {
			if tagFrequency[strings.ToLower(tag)] > 0 {
				matches++
			}
		}
		tagRelevance = 0.5 + float64(matches)/float64(len(autoTags))*0.5
	}

	topSimilarity := 0.0
	if len(sims) > 0 {
		topSimilarity = sims[0]
	}
	baseScore := r.scorer.Score(topSimilarity, r.initialAnswerCount, 1, tagRelevance)

	return &NewQuestionResult{
		SimilarQuestions: similar,
		TagRelevance:     tagRelevance,
		BaseScore:        baseScore,
		Embedding:        queryEmb,
	}, nil
}

// SimilarLive scores candidates against the target embedding, drops
// everything at or below the similarity threshold, re-ranks survivors by
// composite score (not raw similarity) and returns at most ten. Equal
// scores order newest first.
func (r *Retriever) SimilarLive(targetEmbedding []float32, candidates []LiveCandidate) []LiveHit {
	hits := make([]LiveHit, 0, len(candidates))
	for _, cand := range candidates {
		if len(cand.Embedding) == 0 {
			continue
		}
		similarity := CosineSimilarity(targetEmbedding, cand.Embedding)
		if similarity <= liveSimilarityThreshold {
			continue
		}
		score := r.scorer.Score(similarity, cand.AnswerCount, 1, rank.DefaultTagRelevance)
		hits = append(hits, LiveHit{
			ID:          cand.ID,
			Question:    cand.Text,
			Tags:        cand.Tags,
			Similarity:  similarity,
			RankScore:   score,
			AnswerCount: cand.AnswerCount,
		})
	}
	ctimes := make(map[string]int64, len(candidates))
	for _, cand := range candidates {
		ctimes[cand.ID] = cand.Ctime
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].RankScore != hits[j].RankScore {
			return hits[i].RankScore > hits[j].RankScore
		}
		return ctimes[hits[i].ID] > ctimes[hits[j].ID]
	})
	if len(hits) > liveSimilarityLimit {
		hits = hits[:liveSimilarityLimit]
	}
	return hits
}

// EmbedQuestion produces the stored embedding for a question text.
func (r *Retriever) EmbedQuestion(ctx context.Context, text string) ([]float32, error) {
	return r.embed(ctx, text, "RETRIEVAL_DOCUMENT")
}

func (r *Retriever) scanCorpus(ctx context.Context, query string, topK int) ([]int, []float64, error) {
	queryEmb, err := r.embed(ctx, query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, nil, err
	}
	indices, sims := r.rankAll(queryEmb, topK)
	return indices, sims, nil
}

// rankAll scores the query against every corpus row and returns the topK
// indices with their similarities, descending. The stable sort keeps the
// corpus order on ties.
func (r *Retriever) rankAll(queryEmb []float32, topK int) ([]int, []float64) {
	n := r.corpus.Len()
	sims := make([]float64, n)
	indices := make([]int, n)
	for i := 0; i < n; i++ {
		sims[i] = CosineSimilarity(queryEmb, r.corpus.Embedding(i))
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return sims[indices[a]] > sims[indices[b]]
	})
	if topK > 0 && topK < len(indices) {
		indices = indices[:topK]
	}
	ordered := make([]float64, len(indices))
	for i, idx := range indices {
		ordered[i] = sims[idx]
	}
	return indices, ordered
}

func (r *Retriever) embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	if r.embedder == nil {
		return nil, ai.ErrUnavailable
	}
	emb, err := r.embedder.Embed(ctx, text, taskType)
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}
	if len(emb) == 0 {
		return nil, fmt.Errorf("embedder returned empty vector: %w", ai.ErrUnavailable)
	}
	return emb, nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
