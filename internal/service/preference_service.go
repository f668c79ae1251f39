package service

import (
	"context"
	"strings"
	"time"

	"github.com/asklab/askloop/internal/model"
	appErr "github.com/asklab/askloop/internal/pkg/errors"
	"github.com/asklab/askloop/internal/rank"
	"github.com/asklab/askloop/internal/repo"
)

type PreferenceService struct {
	preferences *repo.PreferenceRepo
	questions   *repo.QuestionRepo
	scorer      *rank.Scorer
}

func NewPreferenceService(preferences *repo.PreferenceRepo, questions *repo.QuestionRepo, scorer *rank.Scorer) *PreferenceService {
	return &PreferenceService{
		preferences: preferences,
		questions:   questions,
		scorer:      scorer,
	}
}

// Save replaces the user's whole tag set. Tags are lower-cased and
// deduplicated; an empty set after cleanup is rejected.
func (s *PreferenceService) Save(ctx context.Context, userID string, tags []string) ([]string, error) {
	cleaned := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		key := strings.ToLower(strings.TrimSpace(tag))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		cleaned = append(cleaned, key)
	}
	if len(cleaned) == 0 {
		return nil, appErr.ErrInvalid
	}

	now := time.Now().UnixMilli()
	pref := &model.UserPreference{
		UserID: userID,
		Tags:   cleaned,
		Ctime:  now,
		Mtime:  now,
	}
	if err := s.preferences.Save(ctx, pref); err != nil {
		return nil, err
	}
	return cleaned, nil
}

// Get returns the user's saved tags, or an empty list when none exist.
func (s *PreferenceService) Get(ctx context.Context, userID string) ([]string, error) {
	pref, err := s.preferences.Get(ctx, userID)
	if err != nil {
		if appErr.IsNotFound(err) {
			return []string{}, nil
		}
		return nil, err
	}
	return pref.Tags, nil
}

// Filtered returns the question feed shaped by the user's saved tags. A
// user without preferences sees the plain persisted order.
func (s *PreferenceService) Filtered(ctx context.Context, userID string) ([]QuestionSummary, error) {
	items, err := s.questions.ListWithStats(ctx)
	if err != nil {
		return nil, err
	}

	pref, err := s.preferences.Get(ctx, userID)
	if err != nil {
		if appErr.IsNotFound(err) {
			summaries := make([]QuestionSummary, 0, len(items))
			for _, item := range items {
				summaries = append(summaries, toSummary(item))
			}
			return summaries, nil
		}
		return nil, err
	}
	return filterByPreference(s.scorer, pref.Tags, items), nil
}
