package service

import (
	"sort"
	"strings"

	"github.com/asklab/askloop/internal/model"
	"github.com/asklab/askloop/internal/rank"
)

// QuestionSummary is a listing row with its effective (recomputed) score.
type QuestionSummary struct {
	ID          string   `json:"id"`
	Text        string   `json:"question_text"`
	AutoTags    []string `json:"auto_tags"`
	RankScore   float64  `json:"rank_score"`
	AnswerCount int      `json:"answer_count"`
	Ctime       int64    `json:"ctime"`
}

func toSummary(item model.QuestionWithStats) QuestionSummary {
	return QuestionSummary{
		ID:          item.ID,
		Text:        item.Text,
		AutoTags:    item.AutoTags,
		RankScore:   item.RankScore,
		AnswerCount: item.AnswerCount,
		Ctime:       item.Ctime,
	}
}

// rankListing recomputes every question's effective score, treating the
// persisted base score as the similarity signal so that live answer
// counts keep influencing the visible order without rewriting rows.
func rankListing(scorer *rank.Scorer, items []model.QuestionWithStats) []QuestionSummary {
	summaries := make([]QuestionSummary, 0, len(items))
	for _, item := range items {
		summary := toSummary(item)
		summary.RankScore = scorer.Score(item.RankScore, item.AnswerCount, 1, rank.DefaultTagRelevance)
		summaries = append(summaries, summary)
	}
	sortByScoreDesc(summaries)
	return summaries
}

// filterByPreference keeps questions whose auto-tags intersect the user's
// saved tags and re-ranks them with the preference-match bonus. When the
// intersection is empty for every candidate it falls back to the first
// ten unfiltered rows unchanged, so the feed is never empty.
func filterByPreference(scorer *rank.Scorer, userTags []string, items []model.QuestionWithStats) []QuestionSummary {
	prefSet := make(map[string]bool, len(userTags))
	for _, tag := range userTags {
		key := strings.ToLower(strings.TrimSpace(tag))
		if key != "" {
			prefSet[key] = true
		}
	}

	filtered := make([]QuestionSummary, 0, len(items))
	for _, item := range items {
		if !tagsIntersect(prefSet, item.AutoTags) {
			continue
		}
		summary := toSummary(item)
		summary.RankScore = scorer.Score(item.RankScore, item.AnswerCount, 1, rank.PreferenceTagRelevance)
		filtered = append(filtered, summary)
	}
	if len(filtered) == 0 {
		limit := len(items)
		if limit > 10 {
			limit = 10
		}
		fallback := make([]QuestionSummary, 0, limit)
		for _, item := range items[:limit] {
			fallback = append(fallback, toSummary(item))
		}
		return fallback
	}
	sortByScoreDesc(filtered)
	return filtered
}

func tagsIntersect(prefSet map[string]bool, tags []string) bool {
	for _, tag := range tags {
		if prefSet[strings.ToLower(strings.TrimSpace(tag))] {
			return true
		}
	}
	return false
}

// Equal scores order newest first; the input order from SQL is not relied
// on.
func sortByScoreDesc(summaries []QuestionSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].RankScore != summaries[j].RankScore {
			return summaries[i].RankScore > summaries[j].RankScore
		}
		return summaries[i].Ctime > summaries[j].Ctime
	})
}
