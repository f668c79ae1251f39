package anonid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewFormat(t *testing.T) {
	handle := New()
	require.True(t, strings.HasPrefix(handle, "Anon_"))
	require.Len(t, handle, len("Anon_")+5)
	for _, r := range strings.TrimPrefix(handle, "Anon_") {
		require.Contains(t, alphabet, string(r))
	}
}

func TestNewVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[New()] = true
	}
	// 36^5 possible suffixes; 50 draws colliding down to a handful would
	// mean the randomness is broken.
	require.Greater(t, len(seen), 40)
}
