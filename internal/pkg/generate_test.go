package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSessionCode(t *testing.T) {
	t.Run("Has the expected shape", func(t *testing.T) {
		code := GenerateSessionCode()

		require.Len(t, code, sessionCodeLength)
		for _, r := range code {
			assert.Contains(t, sessionCodeAlphabet, string(r))
		}
	})

	t.Run("Does not repeat across a few draws", func(t *testing.T) {
		// Collisions are possible in a 36^6 space but vanishingly
		// unlikely over a handful of draws.
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			seen[GenerateSessionCode()] = true
		}

		assert.Greater(t, len(seen), 95)
	})
}
