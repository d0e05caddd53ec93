// Package models defines the value types shared by the authorization, playlist and shuffle layers.
//
// Credentials:
//   - [Credential] : access/refresh token pair returned by the provider
//   - [AuthSession] : transient PKCE verifier, challenge and CSRF state for one authorization
//
// Provider data:
//   - [Playlist] : playlist snapshot, identified by ID
//   - [PlaylistItem] : one entry of a playlist with its zero-based position
//   - [Page] : one provider list response, consumed immediately by the aggregator
package models
