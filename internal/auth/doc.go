// Package auth runs the OAuth2 authorization code flow with PKCE against Google and manages the resulting tokens.
//
// # Flow
//
// [Flow.Authorize] generates a PKCE session, presents the authorization URL, waits for the redirect on the local
// listener and checks the returned state before exchanging the code. A state mismatch ends the flow with
// [shared.ErrCsrfMismatch] and no token request is made.
//
// # Token Manager
//
// [TokenManager] hands out access tokens from the credential store, running the flow when none is stored.
// Expiry is never computed locally: an [shared.ErrUnauthorized] from the API is the only signal, and
// [TokenManager.Do] answers it with exactly one refresh and one retry.
//
//	Cold ──authorize──▶ Warm ──401──▶ Refreshing ──ok──▶ Warm
//	                                       └──fail──▶ error (or re-authorize, when configured)
//
// [TokenManager.Clear] revokes and deletes both stored tokens.
package auth
