package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Credential storage errors
	ErrCredentialStore = fmt.Errorf("credential store unavailable")

	// Authentication errors
	ErrAuthFailed     = fmt.Errorf("authentication failed")
	ErrCsrfMismatch   = fmt.Errorf("state mismatch, possible CSRF")
	ErrUnauthorized   = fmt.Errorf("access token rejected")
	ErrRefreshFailed  = fmt.Errorf("token refresh failed")
	ErrNoRefreshToken = fmt.Errorf("no refresh token available")
	ErrRevokeFailed   = fmt.Errorf("token revocation failed")
	ErrBind           = fmt.Errorf("could not bind redirect listener")
	ErrTimeout        = fmt.Errorf("operation timed out")

	// API and service errors
	ErrTransport     = fmt.Errorf("API request failed")
	ErrNoPlaylists   = fmt.Errorf("no playlists found")
	ErrPartialUpdate = fmt.Errorf("some playlist items were not updated")

	// Input validation errors
	ErrInvalidSelection = fmt.Errorf("invalid playlist selection")
)
