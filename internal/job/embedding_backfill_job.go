package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/asklab/askloop/internal/model"
	"github.com/asklab/askloop/internal/repo"
	"github.com/asklab/askloop/internal/retrieve"
)

const backfillBatchSize = 50

// EmbeddingBackfillJob embeds questions whose embedding store failed at
// post time, oldest first, so the live-similarity view eventually covers
// every question.
type EmbeddingBackfillJob struct {
	embeddings *repo.EmbeddingRepo
	retriever  *retrieve.Retriever
	embedModel string
}

func NewEmbeddingBackfillJob(embeddings *repo.EmbeddingRepo, retriever *retrieve.Retriever, embedModel string) *EmbeddingBackfillJob {
	return &EmbeddingBackfillJob{
		embeddings: embeddings,
		retriever:  retriever,
		embedModel: embedModel,
	}
}

func (j *EmbeddingBackfillJob) Name() string {
	return "embedding_backfill"
}

func (j *EmbeddingBackfillJob) Run(ctx context.Context) error {
	missing, err := j.embeddings.ListMissing(ctx, backfillBatchSize)
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		return nil
	}
	logger := logutil.GetLogger(ctx)
	done := 0
	for _, question := range missing {
		embedding, err := j.retriever.EmbedQuestion(ctx, question.Text)
		if err != nil {
			// Provider trouble hits every remaining row too; retry
			// on the next tick instead of hammering it.
			logger.Error("backfill embed failed", zap.String("question_id", question.ID), zap.Error(err))
			return err
		}
		if err := j.embeddings.Save(ctx, &model.QuestionEmbedding{
			QuestionID: question.ID,
			Embedding:  embedding,
			ModelName:  j.embedModel,
			Ctime:      time.Now().UnixMilli(),
		}); err != nil {
			logger.Error("backfill save failed", zap.String("question_id", question.ID), zap.Error(err))
			continue
		}
		done++
	}
	logger.Info("embedding backfill batch done", zap.Int("missing", len(missing)), zap.Int("embedded", done))
	return nil
}
