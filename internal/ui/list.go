package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/ytshuffle/internal/models"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = videoItem{}
)

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	number   int
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Title }
func (i playlistItem) Title() string       { return fmt.Sprintf("%d. %s", i.number, i.playlist.Title) }
func (i playlistItem) Description() string { return i.playlist.ID }

// videoItem wraps [models.PlaylistItem] to implement [list.Item].
type videoItem struct {
	item models.PlaylistItem
}

func (i videoItem) FilterValue() string { return i.item.Title }
func (i videoItem) Title() string       { return i.item.Title }
func (i videoItem) Description() string {
	return fmt.Sprintf("position %d • %s", i.item.Position, i.item.ResourceID.ExternalID)
}
