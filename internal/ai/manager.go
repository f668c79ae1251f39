package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type ManagerConfig struct {
	Timeout       int
	MaxInputChars int
}

// Keyword is one ranked phrase produced by the extraction capability.
// Score is the extractor's relevance estimate, roughly [-1,1].
type Keyword struct {
	Phrase string  `json:"phrase"`
	Score  float64 `json:"score"`
}

// Manager fronts the two external model capabilities the ranking core
// depends on: text -> vector and text -> ranked phrases.
type Manager struct {
	extractor IGenerator
	embedder  IEmbedder
	cfg       ManagerConfig
}

func NewManager(extractor IGenerator, embedder IEmbedder, cfg ManagerConfig) *Manager {
	return &Manager{
		extractor: extractor,
		embedder:  embedder,
		cfg:       cfg,
	}
}

func (m *Manager) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	if m.embedder == nil {
		return nil, ErrUnavailable
	}
	text = m.clipInput(text)
	if m.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(m.cfg.Timeout)*time.Second)
		defer cancel()
	}
	return m.embedder.Embed(ctx, text, taskType)
}

func (m *Manager) ExtractKeywords(ctx context.Context, text string, topN int) ([]Keyword, error) {
	if m.extractor == nil {
		return nil, ErrUnavailable
	}
	if topN <= 0 {
		topN = 8
	}
	if topN > 20 {
		topN = 20
	}
	text = m.clipInput(text)
	prompt := fmt.Sprintf(`You are a keyword extraction assistant.
From the question below, extract up to %d keyword phrases ordered by relevance.
- Phrases should be short (1-3 words), lower case.
- Score each phrase between 0 and 1 for how central it is to the question.
- Return a JSON array of {"phrase": string, "score": number} only. No extra text.

QUESTION:
%s`, topN, text)
	result, err := m.generateText(ctx, m.extractor, prompt)
	if err != nil {
		return nil, err
	}
	return parseKeywords(result, topN)
}

func (m *Manager) generateText(ctx context.Context, gen IGenerator, prompt string) (string, error) {
	if m.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(m.cfg.Timeout)*time.Second)
		defer cancel()
	}
	resp, err := gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp)
	if text == "" {
		return "", fmt.Errorf("empty ai response")
	}
	return text, nil
}

func (m *Manager) MaxInputChars() int {
	return m.cfg.MaxInputChars
}

func (m *Manager) clipInput(text string) string {
	limit := m.cfg.MaxInputChars
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

func (m *Manager) EmbeddingModelName() string {
	if m.embedder == nil {
		return ""
	}
	return m.embedder.ModelName()
}

// ModelName makes Manager usable wherever an IEmbedder is expected, with
// the timeout applied.
func (m *Manager) ModelName() string {
	return m.EmbeddingModelName()
}

func parseKeywords(output string, topN int) ([]Keyword, error) {
	clean := strings.TrimSpace(output)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)
	start := strings.Index(clean, "[")
	end := strings.LastIndex(clean, "]")
	if start >= 0 && end > start {
		clean = clean[start : end+1]
	}

	var keywords []Keyword
	if err := json.Unmarshal([]byte(clean), &keywords); err != nil {
		return nil, fmt.Errorf("parse keywords: %w", err)
	}
	uniq := make([]Keyword, 0, len(keywords))
	seen := make(map[string]bool)
	for _, kw := range keywords {
		phrase := strings.TrimSpace(kw.Phrase)
		if phrase == "" {
			continue
		}
		key := strings.ToLower(phrase)
		if seen[key] {
			continue
		}
		seen[key] = true
		uniq = append(uniq, Keyword{Phrase: phrase, Score: kw.Score})
		if len(uniq) >= topN {
			break
		}
	}
	if len(uniq) == 0 {
		return nil, fmt.Errorf("no keywords found")
	}
	return uniq, nil
}
