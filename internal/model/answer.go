package model

type Answer struct {
	ID         string `json:"id"`
	QuestionID string `json:"question_id"`
	Text       string `json:"answer_text"`
	UserID     string `json:"user_id,omitempty"`
	Ctime      int64  `json:"ctime"`
}
