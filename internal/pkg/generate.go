package pkg

import (
	"crypto/rand"
	"math/big"
)

const (
	sessionCodeLength   = 6
	sessionCodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// GenerateSessionCode - generates a short random code for a session. The
// code space is small, so callers must check for collisions themselves.
func GenerateSessionCode() string {
	code := make([]byte, sessionCodeLength)

	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(sessionCodeAlphabet))))
		if err != nil {
			return "error-generating-session-code"
		}
		code[i] = sessionCodeAlphabet[n.Int64()]
	}

	return string(code)
}
