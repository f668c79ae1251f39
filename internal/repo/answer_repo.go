package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/asklab/askloop/internal/model"
	"github.com/asklab/askloop/internal/pkg/dbutil"
)

type AnswerRepo struct {
	db *sql.DB
}

func NewAnswerRepo(db *sql.DB) *AnswerRepo {
	return &AnswerRepo{db: db}
}

func (r *AnswerRepo) Create(ctx context.Context, answer *model.Answer) error {
	data := map[string]interface{}{
		"id":          answer.ID,
		"question_id": answer.QuestionID,
		"answer_text": answer.Text,
		"user_id":     nullable(answer.UserID),
		"ctime":       answer.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("answers", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// ListByQuestion returns a question's answers ordered oldest first.
func (r *AnswerRepo) ListByQuestion(ctx context.Context, questionID string) ([]model.Answer, error) {
	where := map[string]interface{}{
		"question_id": questionID,
		"_orderby":    "ctime asc",
	}
	sqlStr, args, err := builder.BuildSelect("answers", where, []string{"id", "question_id", "answer_text", "user_id", "ctime"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	answers := make([]model.Answer, 0)
	for rows.Next() {
		var answer model.Answer
		var userID sql.NullString
		if err := rows.Scan(&answer.ID, &answer.QuestionID, &answer.Text, &userID, &answer.Ctime); err != nil {
			return nil, err
		}
		answer.UserID = userID.String
		answers = append(answers, answer)
	}
	return answers, rows.Err()
}
