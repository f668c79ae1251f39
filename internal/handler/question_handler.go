package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/asklab/askloop/internal/pkg/errcode"
	"github.com/asklab/askloop/internal/pkg/response"
	"github.com/asklab/askloop/internal/service"
)

type QuestionHandler struct {
	questions *service.QuestionService
}

func NewQuestionHandler(questions *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

type questionRequest struct {
	QuestionText string `json:"question_text"`
}

type answerRequest struct {
	AnswerText string `json:"answer_text"`
}

// Analyze previews tags and corpus matches without persisting anything.
func (h *QuestionHandler) Analyze(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	result, err := h.questions.Analyze(c.Request.Context(), req.QuestionText)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

func (h *QuestionHandler) Ask(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	result, err := h.questions.Ask(c.Request.Context(), getUserID(c), req.QuestionText)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

func (h *QuestionHandler) List(c *gin.Context) {
	questions, err := h.questions.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"questions": questions})
}

func (h *QuestionHandler) Get(c *gin.Context) {
	detail, err := h.questions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, detail)
}

func (h *QuestionHandler) PostAnswer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	answer, err := h.questions.PostAnswer(c.Request.Context(), getUserID(c), c.Param("id"), req.AnswerText)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, answer)
}

func (h *QuestionHandler) Similar(c *gin.Context) {
	hits, err := h.questions.Similar(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"similar_questions": hits})
}
