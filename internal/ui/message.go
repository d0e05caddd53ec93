package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytshuffle/internal/models"
	"github.com/desertthunder/ytshuffle/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgItemsFetched MsgKind = iota
	MsgProgressUpdate
	MsgShuffleComplete
)

type itemsFetched struct {
	items []models.PlaylistItem
	err   error
}

type shuffleComplete struct {
	report *tasks.ShuffleReport
	err    error
}

// itemsFetchedMsg is the constructor for [MsgItemsFetched]
func itemsFetchedMsg(items []models.PlaylistItem, err error) Msg {
	return Msg{kind: MsgItemsFetched, data: itemsFetched{items, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// shuffleCompleteMsg is the constructor for [MsgShuffleComplete]
func shuffleCompleteMsg(report *tasks.ShuffleReport, err error) Msg {
	return Msg{kind: MsgShuffleComplete, data: shuffleComplete{report, err}}
}
