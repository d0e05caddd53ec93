package pkce

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune(alphabet, r) {
			return false
		}
	}
	return true
}

func TestGenerate(t *testing.T) {
	t.Run("produces verifier and state of the expected shape", func(t *testing.T) {
		session := Generate()

		assert.Len(t, session.CodeVerifier, VerifierLength)
		assert.Len(t, session.State, StateLength)
		assert.True(t, isAlphanumeric(session.CodeVerifier), "verifier should be alphanumeric")
		assert.True(t, isAlphanumeric(session.State), "state should be alphanumeric")
	})

	t.Run("challenge is base64url of the verifier digest", func(t *testing.T) {
		session := Generate()

		sum := sha256.Sum256([]byte(session.CodeVerifier))
		assert.Equal(t, base64.RawURLEncoding.EncodeToString(sum[:]), session.CodeChallenge)
		assert.NotContains(t, session.CodeChallenge, "=")
		assert.NotContains(t, session.CodeChallenge, "+")
		assert.NotContains(t, session.CodeChallenge, "/")
	})

	t.Run("sessions are unique", func(t *testing.T) {
		verifiers := make(map[string]bool)
		states := make(map[string]bool)

		for range 100 {
			session := Generate()
			require.False(t, verifiers[session.CodeVerifier], "duplicate verifier")
			require.False(t, states[session.State], "duplicate state")
			verifiers[session.CodeVerifier] = true
			states[session.State] = true
		}
	})

	t.Run("state is independent of the verifier", func(t *testing.T) {
		session := Generate()
		assert.False(t, strings.HasPrefix(session.CodeVerifier, session.State))
	})
}

func TestChallenge(t *testing.T) {
	t.Run("matches the RFC 7636 appendix B example", func(t *testing.T) {
		verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
		assert.Equal(t, "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM", Challenge(verifier))
	})

	t.Run("always decodes to 32 bytes", func(t *testing.T) {
		for _, verifier := range []string{"", "a", strings.Repeat("z", 1000)} {
			decoded, err := base64.RawURLEncoding.DecodeString(Challenge(verifier))
			require.NoError(t, err)
			assert.Len(t, decoded, sha256.Size)
		}
	})
}

func TestRandomString(t *testing.T) {
	t.Run("covers the alphabet", func(t *testing.T) {
		seen := make(map[rune]bool)
		for _, r := range randomString(20000) {
			seen[r] = true
		}
		assert.Len(t, seen, len(alphabet))
	})

	t.Run("rejection bound keeps modulo uniform", func(t *testing.T) {
		assert.Equal(t, 0, rejectAbove%len(alphabet))
	})
}
