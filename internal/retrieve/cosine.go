package retrieve

import "math"

// CosineSimilarity returns dot(a,b)/(|a||b|) in [-1,1]. Mismatched
// dimensions or zero-norm vectors score 0; values below 0 are treated as
// plain low relevance by callers, there is no special-casing.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
