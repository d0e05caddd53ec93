package services

import (
	"context"

	"github.com/desertthunder/ytshuffle/internal/models"
)

// PlaylistClient is the playlist surface of the YouTube Data API used by the shuffle pipeline.
type PlaylistClient interface {
	// ListPlaylists returns every playlist owned by the user, across all pages.
	ListPlaylists(ctx context.Context, token string) ([]models.Playlist, error)

	// ListItems returns every item of a playlist in playlist order, across all pages.
	ListItems(ctx context.Context, token, playlistID string) ([]models.PlaylistItem, error)

	// UpdateItemPosition moves item to item.Position.
	UpdateItemPosition(ctx context.Context, token string, item models.PlaylistItem) error
}
