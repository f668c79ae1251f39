package model

type QuestionEmbedding struct {
	QuestionID string    `json:"question_id"`
	Embedding  []float32 `json:"embedding"`
	ModelName  string    `json:"model_name"`
	Ctime      int64     `json:"ctime"`
}
