package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseKeywordsPlainArray(t *testing.T) {
	keywords, err := parseKeywords(`[{"phrase":"python","score":0.9},{"phrase":"asyncio","score":0.7}]`, 8)
	require.NoError(t, err)
	require.Len(t, keywords, 2)
	require.Equal(t, "python", keywords[0].Phrase)
	require.Equal(t, 0.9, keywords[0].Score)
}

func TestParseKeywordsStripsCodeFence(t *testing.T) {
	output := "```json\n[{\"phrase\":\"docker\",\"score\":0.8}]\n```"
	keywords, err := parseKeywords(output, 8)
	require.NoError(t, err)
	require.Len(t, keywords, 1)
	require.Equal(t, "docker", keywords[0].Phrase)
}

func TestParseKeywordsExtractsArrayFromProse(t *testing.T) {
	output := `Here are the keywords: [{"phrase":"sql","score":0.6}] hope that helps`
	keywords, err := parseKeywords(output, 8)
	require.NoError(t, err)
	require.Len(t, keywords, 1)
}

func TestParseKeywordsDedupesAndCaps(t *testing.T) {
	output := `[{"phrase":"git","score":0.9},{"phrase":"Git","score":0.8},{"phrase":"ci","score":0.7}]`
	keywords, err := parseKeywords(output, 2)
	require.NoError(t, err)
	require.Len(t, keywords, 2)
	require.Equal(t, "git", keywords[0].Phrase)
	require.Equal(t, "ci", keywords[1].Phrase)
}

func TestParseKeywordsRejectsGarbage(t *testing.T) {
	_, err := parseKeywords("no json here", 8)
	require.Error(t, err)

	_, err = parseKeywords(`[]`, 8)
	require.Error(t, err)
}
