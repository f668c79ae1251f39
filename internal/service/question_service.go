package service

import (
	"context"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/asklab/askloop/internal/model"
	appErr "github.com/asklab/askloop/internal/pkg/errors"
	"github.com/asklab/askloop/internal/rank"
	"github.com/asklab/askloop/internal/repo"
	"github.com/asklab/askloop/internal/retrieve"
	"github.com/asklab/askloop/internal/tagging"
)

type QuestionServiceConfig struct {
	MaxAutoTags int
	SearchTopK  int
}

type QuestionService struct {
	questions  *repo.QuestionRepo
	answers    *repo.AnswerRepo
	embeddings *repo.EmbeddingRepo
	retriever  *retrieve.Retriever
	normalizer *tagging.Normalizer
	scorer     *rank.Scorer
	embedModel string
	cfg        QuestionServiceConfig
}

func NewQuestionService(questions *repo.QuestionRepo, answers *repo.AnswerRepo,
	embeddings *repo.EmbeddingRepo, retriever *retrieve.Retriever,
	normalizer *tagging.Normalizer, scorer *rank.Scorer, embedModel string,
	cfg QuestionServiceConfig) *QuestionService {

	if cfg.MaxAutoTags <= 0 {
		cfg.MaxAutoTags = 8
	}
	if cfg.SearchTopK <= 0 {
		cfg.SearchTopK = 5
	}
	return &QuestionService{
		questions:  questions,
		answers:    answers,
		embeddings: embeddings,
		retriever:  retriever,
		normalizer: normalizer,
		scorer:     scorer,
		embedModel: embedModel,
		cfg:        cfg,
	}
}

// AnalyzeResult previews how a question would rank without persisting it.
type AnalyzeResult struct {
	AutoTags         []string             `json:"auto_tags"`
	SimilarQuestions []retrieve.SearchHit `json:"similar_questions"`
}

// AskResult is the outcome of posting a question.
type AskResult struct {
	QuestionID       string                    `json:"question_id"`
	AutoTags         []string                  `json:"auto_tags"`
	RankScore        float64                   `json:"rank_score"`
	SimilarQuestions []retrieve.NewQuestionHit `json:"similar_questions"`
}

// QuestionDetail is a question together with its answers.
type QuestionDetail struct {
	Question model.Question `json:"question"`
	Answers  []model.Answer `json:"answers"`
}

// Analyze tags the text and searches the reference corpus, without
// writing anything.
func (s *QuestionService) Analyze(ctx context.Context, text string) (*AnalyzeResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, appErr.ErrInvalid
	}
	autoTags := s.normalizer.Normalize(ctx, text, s.cfg.MaxAutoTags)
	hits, err := s.retriever.Search(ctx, text, s.cfg.SearchTopK)
	if err != nil {
		return nil, s.mapEmbedErr(ctx, err)
	}
	return &AnalyzeResult{AutoTags: autoTags, SimilarQuestions: hits}, nil
}

// Ask tags, ranks and persists a new question. The embedding is stored
// alongside so the live-similarity view can reuse it; a store failure is
// logged and left for the backfill job rather than failing the post.
func (s *QuestionService) Ask(ctx context.Context, userID, text string) (*AskResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, appErr.ErrInvalid
	}
	autoTags := s.normalizer.Normalize(ctx, text, s.cfg.MaxAutoTags)
	result, err := s.retriever.ProcessNew(ctx, text, autoTags, s.cfg.SearchTopK)
	if err != nil {
		return nil, s.mapEmbedErr(ctx, err)
	}

	question := &model.Question{
		ID:        newID(),
		Text:      text,
		AutoTags:  autoTags,
		RankScore: result.BaseScore,
		UserID:    userID,
		Ctime:     time.Now().UnixMilli(),
	}
	if err := s.questions.Create(ctx, question); err != nil {
		return nil, err
	}
	if err := s.embeddings.Save(ctx, &model.QuestionEmbedding{
		QuestionID: question.ID,
		Embedding:  result.Embedding,
		ModelName:  s.embedModel,
		Ctime:      question.Ctime,
	}); err != nil {
		logutil.GetLogger(ctx).Error("store question embedding failed, backfill will retry",
			zap.String("question_id", question.ID), zap.Error(err))
	}

	return &AskResult{
		QuestionID:       question.ID,
		AutoTags:         autoTags,
		RankScore:        result.BaseScore,
		SimilarQuestions: result.SimilarQuestions,
	}, nil
}

// List returns every question re-ranked with live answer counts.
func (s *QuestionService) List(ctx context.Context) ([]QuestionSummary, error) {
	items, err := s.questions.ListWithStats(ctx)
	if err != nil {
		return nil, err
	}
	return rankListing(s.scorer, items), nil
}

func (s *QuestionService) Get(ctx context.Context, questionID string) (*QuestionDetail, error) {
	question, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	answers, err := s.answers.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	return &QuestionDetail{Question: *question, Answers: answers}, nil
}

func (s *QuestionService) PostAnswer(ctx context.Context, userID, questionID, text string) (*model.Answer, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, appErr.ErrInvalid
	}
	if _, err := s.questions.GetByID(ctx, questionID); err != nil {
		return nil, err
	}
	answer := &model.Answer{
		ID:         newID(),
		QuestionID: questionID,
		Text:       text,
		UserID:     userID,
		Ctime:      time.Now().UnixMilli(),
	}
	if err := s.answers.Create(ctx, answer); err != nil {
		return nil, err
	}
	return answer, nil
}

// Similar returns live questions close to the target, scored by the
// composite formula. A target missing its stored embedding gets one
// computed and persisted on the spot.
func (s *QuestionService) Similar(ctx context.Context, questionID string) ([]retrieve.LiveHit, error) {
	question, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	targetEmbedding, err := s.targetEmbedding(ctx, question)
	if err != nil {
		return nil, err
	}

	items, err := s.questions.ListWithStatsExcluding(ctx, questionID)
	if err != nil {
		return nil, err
	}
	stored, err := s.embeddings.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byQuestion := make(map[string][]float32, len(stored))
	for _, emb := range stored {
		byQuestion[emb.QuestionID] = emb.Embedding
	}

	candidates := make([]retrieve.LiveCandidate, 0, len(items))
	for _, item := range items {
		candidates = append(candidates, retrieve.LiveCandidate{
			ID:          item.ID,
			Text:        item.Text,
			Tags:        item.AutoTags,
			AnswerCount: item.AnswerCount,
			Ctime:       item.Ctime,
			Embedding:   byQuestion[item.ID],
		})
	}
	return s.retriever.SimilarLive(targetEmbedding, candidates), nil
}

func (s *QuestionService) targetEmbedding(ctx context.Context, question *model.Question) ([]float32, error) {
	stored, err := s.embeddings.GetByQuestionID(ctx, question.ID)
	if err == nil {
		return stored.Embedding, nil
	}
	if !appErr.IsNotFound(err) {
		return nil, err
	}
	embedding, err := s.retriever.EmbedQuestion(ctx, question.Text)
	if err != nil {
		return nil, s.mapEmbedErr(ctx, err)
	}
	if err := s.embeddings.Save(ctx, &model.QuestionEmbedding{
		QuestionID: question.ID,
		Embedding:  embedding,
		ModelName:  s.embedModel,
		Ctime:      time.Now().UnixMilli(),
	}); err != nil {
		logutil.GetLogger(ctx).Error("store target embedding failed",
			zap.String("question_id", question.ID), zap.Error(err))
	}
	return embedding, nil
}

// mapEmbedErr converts any failure from the embedding path into the
// service-unavailable condition. Provider transport and API errors count
// the same as a missing provider: no partial ranking result exists either
// way.
func (s *QuestionService) mapEmbedErr(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	logutil.GetLogger(ctx).Error("embedding provider unavailable", zap.Error(err))
	return appErr.ErrUnavailable
}
