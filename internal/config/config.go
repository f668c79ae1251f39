package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port          int              `json:"port"`
	JWTSecret     string           `json:"jwt_secret"`
	JWTTTLHours   int              `json:"jwt_ttl_hours"`
	CORSAllowlist []string         `json:"cors_allowlist"`
	LogConfig     logger.LogConfig `json:"log_config"`
	Database      DatabaseConfig   `json:"database"`
	AI            AIConfig         `json:"ai"`
	Corpus        CorpusConfig     `json:"corpus"`
	Ranking       RankingConfig    `json:"ranking"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

type AIConfig struct {
	Provider        string      `json:"provider"`
	Data            interface{} `json:"data"`
	ChatModel       string      `json:"chat_model"`
	EmbedModel      string      `json:"embed_model"`
	TimeoutSeconds  int         `json:"timeout_seconds"`
	MaxInputChars   int         `json:"max_input_chars"`
	EmbedCacheSize  int         `json:"embed_cache_size"`
	EmbedCacheTTLMi int         `json:"embed_cache_ttl_minutes"`
}

type CorpusConfig struct {
	DatasetPath    string `json:"dataset_path"`
	EmbeddingsPath string `json:"embeddings_path"`
}

type RankingConfig struct {
	// InitialAnswerCount seeds the engagement signal for a brand-new
	// question before any answers exist.
	InitialAnswerCount int    `json:"initial_answer_count"`
	MaxAutoTags        int    `json:"max_auto_tags"`
	SearchTopK         int    `json:"search_top_k"`
	BackfillCron       string `json:"backfill_cron"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required")
	}
	if cfg.JWTTTLHours == 0 {
		cfg.JWTTTLHours = 72
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.Database.DSN == "" && (cfg.Database.Host == "" || cfg.Database.DBName == "") {
		return nil, fmt.Errorf("database.dsn or database.host/db_name is required")
	}
	if cfg.AI.Provider == "" {
		return nil, fmt.Errorf("ai.provider is required")
	}
	if cfg.AI.EmbedModel == "" {
		return nil, fmt.Errorf("ai.embed_model is required")
	}
	if cfg.AI.TimeoutSeconds == 0 {
		cfg.AI.TimeoutSeconds = 30
	}
	if cfg.AI.MaxInputChars == 0 {
		cfg.AI.MaxInputChars = 20000
	}
	if cfg.AI.EmbedCacheSize == 0 {
		cfg.AI.EmbedCacheSize = 4096
	}
	if cfg.AI.EmbedCacheTTLMi == 0 {
		cfg.AI.EmbedCacheTTLMi = 120
	}
	if cfg.Corpus.DatasetPath == "" {
		return nil, fmt.Errorf("corpus.dataset_path is required")
	}
	if cfg.Corpus.EmbeddingsPath == "" {
		return nil, fmt.Errorf("corpus.embeddings_path is required")
	}
	if cfg.Ranking.InitialAnswerCount == 0 {
		cfg.Ranking.InitialAnswerCount = 2
	}
	if cfg.Ranking.MaxAutoTags == 0 {
		cfg.Ranking.MaxAutoTags = 8
	}
	if cfg.Ranking.SearchTopK == 0 {
		cfg.Ranking.SearchTopK = 5
	}
	if cfg.Ranking.BackfillCron == "" {
		cfg.Ranking.BackfillCron = "*/5 * * * *"
	}
	return &cfg, nil
}
