package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTagList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"typical", "['python' 'pandas' 'csv']", []string{"python", "pandas", "csv"}},
		{"single", "['sql']", []string{"sql"}},
		{"empty brackets", "[]", nil},
		{"blank", "", nil},
		{"comma separated quotes", "['a', 'b']", []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ParseTagList(tt.raw))
		})
	}
}

func TestNewRejectsMisalignedRows(t *testing.T) {
	entries := []Entry{{Text: "a"}, {Text: "b"}}
	_, err := New(entries, [][]float32{{1, 0}})
	require.Error(t, err)
}

func TestNewRejectsMixedDimensions(t *testing.T) {
	entries := []Entry{{Text: "a"}, {Text: "b"}}
	_, err := New(entries, [][]float32{{1, 0}, {1, 0, 0}})
	require.Error(t, err)
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	datasetPath := filepath.Join(dir, "dataset.csv")
	embeddingsPath := filepath.Join(dir, "embeddings.json")

	csvContent := "processed_text,tags_list,final_rank_score\n" +
		"how to merge dataframes,\"['python' 'pandas']\",0.81\n" +
		"join two tables,\"['sql']\",0.65\n"
	require.NoError(t, os.WriteFile(datasetPath, []byte(csvContent), 0o644))
	require.NoError(t, os.WriteFile(embeddingsPath, []byte(`[[0.1,0.2],[0.3,0.4]]`), 0o644))

	c, err := Load(datasetPath, embeddingsPath)
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())
	require.Equal(t, 2, c.Dim())
	require.Equal(t, "how to merge dataframes", c.Entry(0).Text)
	require.Equal(t, []string{"python", "pandas"}, c.Entry(0).Tags)
	require.InDelta(t, 0.81, c.Entry(0).RankScore, 1e-9)
	require.Equal(t, []float32{0.3, 0.4}, c.Embedding(1))
}

func TestLoadRejectsMissingColumns(t *testing.T) {
	dir := t.TempDir()
	datasetPath := filepath.Join(dir, "dataset.csv")
	embeddingsPath := filepath.Join(dir, "embeddings.json")
	require.NoError(t, os.WriteFile(datasetPath, []byte("text,score\nfoo,0.5\n"), 0o644))
	require.NoError(t, os.WriteFile(embeddingsPath, []byte(`[[0.1]]`), 0o644))

	_, err := Load(datasetPath, embeddingsPath)
	require.Error(t, err)
}
