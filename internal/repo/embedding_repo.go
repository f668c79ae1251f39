package repo

import (
	"context"
	"database/sql"

	"github.com/pgvector/pgvector-go"

	"github.com/asklab/askloop/internal/model"
	appErr "github.com/asklab/askloop/internal/pkg/errors"
)

type EmbeddingRepo struct {
	db *sql.DB
}

func NewEmbeddingRepo(db *sql.DB) *EmbeddingRepo {
	return &EmbeddingRepo{db: db}
}

func (r *EmbeddingRepo) Save(ctx context.Context, emb *model.QuestionEmbedding) error {
	const query = `
		INSERT INTO question_embeddings (question_id, embedding, model_name, ctime)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (question_id) DO UPDATE SET
			embedding = EXCLUDED.embedding,
			model_name = EXCLUDED.model_name,
			ctime = EXCLUDED.ctime
	`
	_, err := r.db.ExecContext(ctx, query,
		emb.QuestionID,
		pgvector.NewVector(emb.Embedding),
		emb.ModelName,
		emb.Ctime,
	)
	return err
}

func (r *EmbeddingRepo) GetByQuestionID(ctx context.Context, questionID string) (*model.QuestionEmbedding, error) {
	const query = `
		SELECT question_id, embedding, model_name, ctime
		FROM question_embeddings
		WHERE question_id = $1
	`
	row := r.db.QueryRowContext(ctx, query, questionID)
	var item model.QuestionEmbedding
	var embedding pgvector.Vector
	if err := row.Scan(&item.QuestionID, &embedding, &item.ModelName, &item.Ctime); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	item.Embedding = embedding.Slice()
	return &item, nil
}

func (r *EmbeddingRepo) ListAll(ctx context.Context) ([]model.QuestionEmbedding, error) {
	const query = `
		SELECT question_id, embedding, model_name, ctime
		FROM question_embeddings
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	results := make([]model.QuestionEmbedding, 0)
	for rows.Next() {
		var item model.QuestionEmbedding
		var embedding pgvector.Vector
		if err := rows.Scan(&item.QuestionID, &embedding, &item.ModelName, &item.Ctime); err != nil {
			return nil, err
		}
		item.Embedding = embedding.Slice()
		results = append(results, item)
	}
	return results, rows.Err()
}

// ListMissing returns questions that have no stored embedding yet, for
// the backfill job.
func (r *EmbeddingRepo) ListMissing(ctx context.Context, limit int) ([]model.Question, error) {
	const query = `
		SELECT q.id, q.question_text, q.auto_tags, q.rank_score, q.user_id, q.ctime
		FROM questions q
		LEFT JOIN question_embeddings e ON q.id = e.question_id
		WHERE e.question_id IS NULL
		ORDER BY q.ctime ASC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	questions := make([]model.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}
