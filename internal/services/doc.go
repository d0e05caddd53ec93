// Package services talks to the YouTube Data API v3 on behalf of the signed-in user.
//
// # Playlist Client
//
// [YouTubeService] implements [PlaylistClient] with the generated google.golang.org/api/youtube/v3 client.
// The access token is passed to every call and sent as an explicit Authorization header; the service never
// refreshes tokens itself. A 401 from any call is reported as [shared.ErrUnauthorized] so the caller can
// refresh and retry. Every other failure is [shared.ErrTransport].
//
// # Pagination
//
// List endpoints return pages linked by an opaque cursor. [Collect] follows the cursor until it is empty and
// concatenates the pages in arrival order:
//
//	cursor="" → page 1 (next=A) → page A (next=B) → page B (next="") → items 1..N
//
// No item is reordered or deduplicated. A cursor seen twice stops the walk with an error.
package services
