// package formatter renders playlists, playlist items and shuffle results as plain text
package formatter

import (
	"bytes"
	"fmt"

	"github.com/desertthunder/ytshuffle/internal/models"
)

// Playlists lists playlists numbered from 1, the numbering the selection prompt accepts.
func Playlists(playlists []models.Playlist) []byte {
	var buf bytes.Buffer
	for i, pl := range playlists {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, pl.Title))
	}
	return buf.Bytes()
}

// Items lists playlist items with their zero-based position.
func Items(items []models.PlaylistItem) []byte {
	var buf bytes.Buffer

	buf.WriteString("Here are the items in the playlist\n")
	for _, item := range items {
		buf.WriteString(fmt.Sprintf("%d. %s\n", item.Position, item.Title))
	}

	return buf.Bytes()
}

// Summary describes the outcome of a shuffle run.
func Summary(title string, processed, failed int) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Shuffled %s: %d items processed", title, processed))
	if failed > 0 {
		buf.WriteString(fmt.Sprintf(", %d failed", failed))
	}
	buf.WriteString("\n")

	return buf.Bytes()
}
