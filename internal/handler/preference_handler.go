package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/asklab/askloop/internal/pkg/errcode"
	"github.com/asklab/askloop/internal/pkg/response"
	"github.com/asklab/askloop/internal/service"
)

type PreferenceHandler struct {
	preferences *service.PreferenceService
}

func NewPreferenceHandler(preferences *service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{preferences: preferences}
}

type preferenceRequest struct {
	Tags []string `json:"tags"`
}

func (h *PreferenceHandler) Save(c *gin.Context) {
	var req preferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	tags, err := h.preferences.Save(c.Request.Context(), getUserID(c), req.Tags)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"tags": tags})
}

func (h *PreferenceHandler) Get(c *gin.Context) {
	tags, err := h.preferences.Get(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"tags": tags})
}

// Filtered is the preference-shaped question feed.
func (h *PreferenceHandler) Filtered(c *gin.Context) {
	questions, err := h.preferences.Filtered(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"questions": questions})
}
