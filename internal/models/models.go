package models

// Credential is the token pair issued by the provider.
//
// RefreshToken may be empty when the provider withholds it on a repeated grant.
type Credential struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // seconds, informational only
}

// AuthSession holds the per-authorization PKCE values. It is never persisted.
type AuthSession struct {
	CodeVerifier  string
	CodeChallenge string
	State         string
}

// Playlist is a snapshot of a remote playlist.
type Playlist struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ResourceID points at the media an item refers to.
type ResourceID struct {
	Kind       string `json:"kind"`
	ExternalID string `json:"external_id"`
}

// PlaylistItem is one entry of a playlist.
//
// Position is the zero-based slot the item occupies; it is the only field a reorder rewrites.
type PlaylistItem struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Position   uint       `json:"position"`
	PlaylistID string     `json:"playlist_id"`
	ResourceID ResourceID `json:"resource_id"`
}

// Page is a single provider list response.
//
// An empty NextCursor marks the last page.
type Page[T any] struct {
	Items      []T
	NextCursor string
	TotalCount uint
	PageSize   uint
}
