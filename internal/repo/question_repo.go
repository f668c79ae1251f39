package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/asklab/askloop/internal/model"
	"github.com/asklab/askloop/internal/pkg/dbutil"
	appErr "github.com/asklab/askloop/internal/pkg/errors"
)

type QuestionRepo struct {
	db *sql.DB
}

func NewQuestionRepo(db *sql.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

func (r *QuestionRepo) Create(ctx context.Context, q *model.Question) error {
	data := map[string]interface{}{
		"id":            q.ID,
		"question_text": q.Text,
		"auto_tags":     joinTags(q.AutoTags),
		"rank_score":    q.RankScore,
		"user_id":       nullable(q.UserID),
		"ctime":         q.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("questions", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *QuestionRepo) GetByID(ctx context.Context, questionID string) (*model.Question, error) {
	where := map[string]interface{}{"id": questionID}
	sqlStr, args, err := builder.BuildSelect("questions", where, []string{"id", "question_text", "auto_tags", "rank_score", "user_id", "ctime"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	q, err := scanQuestion(rows)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// ListWithStats returns every question with its live answer count,
// ordered by persisted score then recency. Callers re-rank in process.
func (r *QuestionRepo) ListWithStats(ctx context.Context) ([]model.QuestionWithStats, error) {
	return r.listWithStats(ctx, "")
}

// ListWithStatsExcluding is ListWithStats minus one question, used by the
// live-similarity view to skip the target itself.
func (r *QuestionRepo) ListWithStatsExcluding(ctx context.Context, questionID string) ([]model.QuestionWithStats, error) {
	return r.listWithStats(ctx, questionID)
}

func (r *QuestionRepo) listWithStats(ctx context.Context, excludeID string) ([]model.QuestionWithStats, error) {
	query := `
		SELECT q.id, q.question_text, q.auto_tags, q.rank_score, q.user_id, q.ctime,
		       COUNT(a.id) AS answer_count
		FROM questions q
		LEFT JOIN answers a ON q.id = a.question_id
	`
	var args []interface{}
	if excludeID != "" {
		query += " WHERE q.id != $1"
		args = append(args, excludeID)
	}
	query += `
		GROUP BY q.id
		ORDER BY q.rank_score DESC, q.ctime DESC
	`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	results := make([]model.QuestionWithStats, 0)
	for rows.Next() {
		var item model.QuestionWithStats
		var tags string
		var userID sql.NullString
		if err := rows.Scan(&item.ID, &item.Text, &tags, &item.RankScore, &userID, &item.Ctime, &item.AnswerCount); err != nil {
			return nil, err
		}
		item.AutoTags = splitTags(tags)
		item.UserID = userID.String
		results = append(results, item)
	}
	return results, rows.Err()
}

func scanQuestion(rows *sql.Rows) (*model.Question, error) {
	var q model.Question
	var tags string
	var userID sql.NullString
	if err := rows.Scan(&q.ID, &q.Text, &tags, &q.RankScore, &userID, &q.Ctime); err != nil {
		return nil, err
	}
	q.AutoTags = splitTags(tags)
	q.UserID = userID.String
	return &q, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
