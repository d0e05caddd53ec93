// Package pkce generates the per-authorization values of the OAuth2 PKCE extension (RFC 7636).
package pkce

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/desertthunder/ytshuffle/internal/models"
)

const (
	// VerifierLength is the upper bound RFC 7636 allows for a code verifier.
	VerifierLength = 128
	// StateLength is the length of the anti-CSRF state token.
	StateLength = 16

	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	// bytes at or above this value are rejected so that b % len(alphabet) stays uniform
	rejectAbove = 256 - 256%len(alphabet)
)

// Generate creates a fresh [models.AuthSession]: a random verifier, its S256 challenge and an independent state.
func Generate() models.AuthSession {
	verifier := randomString(VerifierLength)
	return models.AuthSession{
		CodeVerifier:  verifier,
		CodeChallenge: Challenge(verifier),
		State:         randomString(StateLength),
	}
}

// Challenge derives the S256 code challenge: base64url without padding of SHA-256(verifier).
func Challenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// randomString draws n characters uniformly from the alphanumeric alphabet using crypto/rand.
func randomString(n int) string {
	out := make([]byte, 0, n)
	buf := make([]byte, n+n/2)

	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			panic(fmt.Sprintf("pkce: system randomness unavailable: %v", err))
		}
		for _, b := range buf {
			if int(b) >= rejectAbove {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == n {
				break
			}
		}
	}

	return string(out)
}
