package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/asklab/askloop/internal/ai"
	"github.com/asklab/askloop/internal/config"
	"github.com/asklab/askloop/internal/corpus"
	"github.com/asklab/askloop/internal/db"
	"github.com/asklab/askloop/internal/embedcache"
	"github.com/asklab/askloop/internal/handler"
	"github.com/asklab/askloop/internal/job"
	"github.com/asklab/askloop/internal/middleware"
	"github.com/asklab/askloop/internal/rank"
	"github.com/asklab/askloop/internal/repo"
	"github.com/asklab/askloop/internal/retrieve"
	"github.com/asklab/askloop/internal/schedule"
	"github.com/asklab/askloop/internal/service"
	"github.com/asklab/askloop/internal/tagging"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "askloop",
		Short: "askloop backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run askloop server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			database, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(database); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, database)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, database *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("embed_model", cfg.AI.EmbedModel),
	)

	refCorpus, err := corpus.Load(cfg.Corpus.DatasetPath, cfg.Corpus.EmbeddingsPath)
	if err != nil {
		return fmt.Errorf("load reference corpus: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("reference corpus loaded",
		zap.Int("entries", refCorpus.Len()), zap.Int("dim", refCorpus.Dim()))

	providerArgs := cfg.AI.Data
	if providerArgs == nil {
		providerArgs = cfg.AI
	}
	var extractor ai.IGenerator
	if cfg.AI.ChatModel != "" {
		chatProvider, err := ai.NewChatProvider(cfg.AI.Provider, providerArgs)
		if err != nil {
			return fmt.Errorf("init chat provider: %w", err)
		}
		extractor = ai.NewGenerator(chatProvider, cfg.AI.ChatModel)
	}
	embedProvider, err := ai.NewEmbedProvider(cfg.AI.Provider, providerArgs)
	if err != nil {
		return fmt.Errorf("init embed provider: %w", err)
	}
	embedder := embedcache.WrapLruCacheToEmbedder(
		ai.NewEmbedder(embedProvider, cfg.AI.EmbedModel),
		cfg.AI.EmbedCacheSize,
		time.Duration(cfg.AI.EmbedCacheTTLMi)*time.Minute,
	)
	manager := ai.NewManager(extractor, embedder, ai.ManagerConfig{
		Timeout:       cfg.AI.TimeoutSeconds,
		MaxInputChars: cfg.AI.MaxInputChars,
	})

	scorer, err := rank.NewScorer(rank.DefaultWeights())
	if err != nil {
		return fmt.Errorf("init scorer: %w", err)
	}
	retriever := retrieve.NewRetriever(manager, refCorpus, scorer, cfg.Ranking.InitialAnswerCount)
	normalizer := tagging.NewNormalizer(manager)

	userRepo := repo.NewUserRepo(database)
	questionRepo := repo.NewQuestionRepo(database)
	answerRepo := repo.NewAnswerRepo(database)
	preferenceRepo := repo.NewPreferenceRepo(database)
	embeddingRepo := repo.NewEmbeddingRepo(database)

	authService := service.NewAuthService(userRepo, []byte(cfg.JWTSecret), time.Hour*time.Duration(cfg.JWTTTLHours))
	questionService := service.NewQuestionService(questionRepo, answerRepo, embeddingRepo,
		retriever, normalizer, scorer, cfg.AI.EmbedModel, service.QuestionServiceConfig{
			MaxAutoTags: cfg.Ranking.MaxAutoTags,
			SearchTopK:  cfg.Ranking.SearchTopK,
		})
	preferenceService := service.NewPreferenceService(preferenceRepo, questionRepo, scorer)

	deps := handler.RouterDeps{
		Auth:        handler.NewAuthHandler(authService),
		Questions:   handler.NewQuestionHandler(questionService),
		Preferences: handler.NewPreferenceHandler(preferenceService),
		JWTSecret:   []byte(cfg.JWTSecret),
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(cfg.CORSAllowlist),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	backfill := job.NewEmbeddingBackfillJob(embeddingRepo, retriever, cfg.AI.EmbedModel)
	if err := scheduler.AddJob(backfill, cfg.Ranking.BackfillCron); err != nil {
		return fmt.Errorf("schedule backfill: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
