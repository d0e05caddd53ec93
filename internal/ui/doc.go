// Package ui renders console output and implements the interactive shuffle workflow using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow:
//  1. [PlaylistListView] : Browse and select a playlist
//  2. [ItemListView] : Preview the playlist's items in their current order
//  3. [ConfirmView] : Confirm the shuffle (the playlist must be manually sorted)
//  4. [ShuffleView] : Monitor per-item progress updates
//  5. [ResultView] : Display processed and failed counts
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the ShuffleEngine, providing non-blocking status reporting.
//
// [Palette] holds the lipgloss styles shared with the plain console output of the cmd package.
package ui
