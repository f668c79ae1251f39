package anonid

import (
	"crypto/rand"
	"math/big"
)

const (
	prefix    = "Anon_"
	alphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	suffixLen = 5
)

// New returns a display handle like "Anon_K3F9Z". Handles are random, not
// derived from the user, so posts cannot be linked back to an account.
func New() string {
	buf := make([]byte, suffixLen)
	max := big.NewInt(int64(len(alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is
			// broken; fall back to a fixed character rather than panic.
			buf[i] = alphabet[0]
			continue
		}
		buf[i] = alphabet[n.Int64()]
	}
	return prefix + string(buf)
}
