package corpus

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Entry is one historical question from the static reference dataset.
type Entry struct {
	Text      string
	Tags      []string
	RankScore float64
}

// Corpus pairs the dataset rows with their precomputed embeddings,
// positionally aligned. It is loaded once at startup and immutable for
// the process lifetime; concurrent reads are safe.
type Corpus struct {
	entries    []Entry
	embeddings [][]float32
	dim        int
}

var tagListRegex = regexp.MustCompile(`'([^']+)'`)

// ParseTagList extracts tags from the dataset's bracketed-quoted format,
// e.g. ['python' 'pandas' 'csv'].
func ParseTagList(raw string) []string {
	matches := tagListRegex.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return nil
	}
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, m[1])
	}
	return tags
}

// Load reads the processed dataset CSV (columns: processed_text,
// tags_list, final_rank_score) and the JSON embedding array, and verifies
// the two are aligned row for row.
func Load(datasetPath, embeddingsPath string) (*Corpus, error) {
	entries, err := loadDataset(datasetPath)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	embeddings, err := loadEmbeddings(embeddingsPath)
	if err != nil {
		return nil, fmt.Errorf("load embeddings: %w", err)
	}
	return New(entries, embeddings)
}

// New builds a corpus from already-loaded rows, mainly for fixture
// corpora in tests.
func New(entries []Entry, embeddings [][]float32) (*Corpus, error) {
	if len(entries) != len(embeddings) {
		return nil, fmt.Errorf("corpus has %d rows but %d embeddings", len(entries), len(embeddings))
	}
	dim := 0
	for i, emb := range embeddings {
		if len(emb) == 0 {
			return nil, fmt.Errorf("embedding row %d is empty", i)
		}
		if dim == 0 {
			dim = len(emb)
		} else if len(emb) != dim {
			return nil, fmt.Errorf("embedding row %d has dimension %d, want %d", i, len(emb), dim)
		}
	}
	return &Corpus{entries: entries, embeddings: embeddings, dim: dim}, nil
}

func (c *Corpus) Len() int {
	return len(c.entries)
}

func (c *Corpus) Dim() int {
	return c.dim
}

func (c *Corpus) Entry(i int) Entry {
	return c.entries[i]
}

func (c *Corpus) Embedding(i int) []float32 {
	return c.embeddings[i]
}

func loadDataset(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset is empty")
	}

	header := records[0]
	textIdx, tagsIdx, scoreIdx := -1, -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "processed_text":
			textIdx = i
		case "tags_list":
			tagsIdx = i
		case "final_rank_score":
			scoreIdx = i
		}
	}
	if textIdx < 0 || tagsIdx < 0 || scoreIdx < 0 {
		return nil, fmt.Errorf("dataset header missing required columns, got %v", header)
	}

	entries := make([]Entry, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) <= textIdx || len(record) <= tagsIdx || len(record) <= scoreIdx {
			return nil, fmt.Errorf("dataset row %d has %d columns", i+1, len(record))
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(record[scoreIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("dataset row %d rank score: %w", i+1, err)
		}
		entries = append(entries, Entry{
			Text:      record[textIdx],
			Tags:      ParseTagList(record[tagsIdx]),
			RankScore: score,
		})
	}
	return entries, nil
}

func loadEmbeddings(path string) ([][]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var embeddings [][]float32
	if err := json.Unmarshal(data, &embeddings); err != nil {
		return nil, err
	}
	return embeddings, nil
}
