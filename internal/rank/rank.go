package rank

import (
	"fmt"
	"math"
)

// Tag relevance is caller-supplied context: 0.5 when nothing is known,
// 0.6 when the question matched an explicit user preference, and a
// corpus-overlap-derived value for newly posted questions.
const (
	DefaultTagRelevance    = 0.5
	PreferenceTagRelevance = 0.6

	// Engagement saturation thresholds. Beyond these the bonus stops
	// growing.
	AnswerSaturation = 10
	ViewSaturation   = 100
)

const weightSumTolerance = 0.001

// Weights defines the relative importance of each ranking signal. At
// saturation (every signal at 1.0) they must sum to exactly 1.0 so the
// composite score stays in [0,1].
type Weights struct {
	Similarity   float64 `json:"similarity"`
	TagRelevance float64 `json:"tag_relevance"`
	Answers      float64 `json:"answers"`
	Popularity   float64 `json:"popularity"`
}

// DefaultWeights: semantic relevance dominates, explicit tag match is the
// second strongest signal, engagement contributes smaller saturating
// bonuses.
func DefaultWeights() Weights {
	return Weights{
		Similarity:   0.40,
		TagRelevance: 0.30,
		Answers:      0.15,
		Popularity:   0.15,
	}
}

func (w Weights) Validate() error {
	if w.Similarity < 0 || w.TagRelevance < 0 || w.Answers < 0 || w.Popularity < 0 {
		return fmt.Errorf("weights must be non-negative")
	}
	sum := w.Similarity + w.TagRelevance + w.Answers + w.Popularity
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("weights must sum to 1.0, got %.3f", sum)
	}
	return nil
}

// Scorer computes the composite rank score. It is pure and safe for
// concurrent use.
type Scorer struct {
	weights Weights
}

func NewScorer(weights Weights) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{weights: weights}, nil
}

// Score combines similarity, tag relevance and the saturating engagement
// bonuses into a value in [0,1]. Negative counts clamp to zero.
func (s *Scorer) Score(similarity float64, answerCount, viewCount int, tagRelevance float64) float64 {
	if answerCount < 0 {
		answerCount = 0
	}
	if viewCount < 0 {
		viewCount = 0
	}
	answerScore := math.Min(float64(answerCount)/AnswerSaturation, 1.0) * s.weights.Answers
	popularityScore := math.Min(float64(viewCount)/ViewSaturation, 1.0) * s.weights.Popularity

	score := similarity*s.weights.Similarity +
		tagRelevance*s.weights.TagRelevance +
		answerScore +
		popularityScore
	return math.Min(score, 1.0)
}
