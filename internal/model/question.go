package model

// Question holds the persisted row. RankScore is the base score fixed at
// creation; listing paths recompute an effective score from it on every
// read, the stored value is never mutated.
type Question struct {
	ID        string   `json:"id"`
	Text      string   `json:"question_text"`
	AutoTags  []string `json:"auto_tags"`
	RankScore float64  `json:"rank_score"`
	UserID    string   `json:"user_id,omitempty"`
	Ctime     int64    `json:"ctime"`
}

// QuestionWithStats carries the live answer count alongside the row, as
// produced by the aggregate listing query.
type QuestionWithStats struct {
	Question
	AnswerCount int `json:"answer_count"`
}
