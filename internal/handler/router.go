package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/asklab/askloop/internal/middleware"
	"github.com/asklab/askloop/internal/pkg/response"
)

type RouterDeps struct {
	Auth        *AuthHandler
	Questions   *QuestionHandler
	Preferences *PreferenceHandler
	JWTSecret   []byte
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.GET("/healthz", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "ok"})
	})

	api.POST("/auth/signup", deps.Auth.Signup)
	api.POST("/auth/login", deps.Auth.Login)

	// Reading questions needs no account; posting does.
	api.GET("/questions", deps.Questions.List)
	api.GET("/questions/:id", deps.Questions.Get)
	api.GET("/questions/:id/similar", deps.Questions.Similar)
	api.POST("/questions/analyze", deps.Questions.Analyze)

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))
	authGroup.POST("/questions", deps.Questions.Ask)
	authGroup.POST("/questions/:id/answers", deps.Questions.PostAnswer)
	authGroup.GET("/questions/filtered", deps.Preferences.Filtered)
	authGroup.PUT("/users/preferences", deps.Preferences.Save)
	authGroup.GET("/users/preferences", deps.Preferences.Get)
}
