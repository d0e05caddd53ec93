package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytshuffle/internal/models"
	"github.com/desertthunder/ytshuffle/internal/shared"
	"github.com/desertthunder/ytshuffle/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	ItemListView
	ConfirmView
	ShuffleView
	ResultView
)

// SortedWarning is shown before a playlist is shuffled.
const SortedWarning = "[IMPORTANT] Make sure the playlist you choose is manually sorted"

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Actions are the operations the TUI triggers; the caller binds them to an authenticated client.
type Actions struct {
	ListItems func(ctx context.Context, playlistID string) ([]models.PlaylistItem, error)
	Shuffle   func(ctx context.Context, items []models.PlaylistItem, progress chan<- tasks.ProgressUpdate) (*tasks.ShuffleReport, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	actions      Actions
	width        int
	height       int
	playlistList list.Model
	itemList     list.Model
	selected     *models.Playlist
	items        []models.PlaylistItem
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	failed       int
	report       *tasks.ShuffleReport
	err          error
	cancel       context.CancelFunc
	interrupted  bool
	help         help.Model
	keys         keyMap
}

// NewModel creates the TUI model for an already fetched, non-empty playlist collection.
func NewModel(ctx context.Context, playlists []models.Playlist, actions Actions) *Model {
	items := make([]list.Item, len(playlists))
	for i, pl := range playlists {
		items[i] = playlistItem{number: i + 1, playlist: pl}
	}

	playlistList := list.New(items, list.NewDefaultDelegate(), defaultWidth, defaultHeight)
	playlistList.Title = fmt.Sprintf("Found %d playlists", len(playlists))

	return &Model{
		ctx:          ctx,
		view:         PlaylistListView,
		actions:      actions,
		width:        defaultWidth,
		height:       defaultHeight,
		playlistList: playlistList,
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

// Init has nothing to fetch; playlists are loaded before the program starts.
func (m *Model) Init() tea.Cmd {
	return nil
}

// State returns the current view.
func (m *Model) State() ViewState {
	return m.view
}

// Result returns the report and error of the most recent shuffle.
//
// Quitting while a shuffle runs cancels it and yields an error wrapping [shared.ErrPartialUpdate].
func (m *Model) Result() (*tasks.ShuffleReport, error) {
	return m.report, m.err
}

// Selected returns the playlist being viewed or shuffled, or nil on the playlist list.
func (m *Model) Selected() *models.Playlist {
	return m.selected
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		if m.items != nil {
			m.itemList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		if m.err != nil && m.view != ResultView {
			return m.handleErrorKeys(msg)
		}
		switch m.view {
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case ItemListView:
			return m.handleItemListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ShuffleView:
			if key.Matches(msg, m.keys.quit) {
				m.interrupt()
				return m, tea.Quit
			}
			return m, nil
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgItemsFetched:
		data := msg.data.(itemsFetched)
		if data.err != nil {
			m.err = data.err
			m.view = PlaylistListView
			return m, nil
		}
		m.items = data.items
		if m.items == nil {
			m.items = []models.PlaylistItem{}
		}
		items := make([]list.Item, len(data.items))
		for i, it := range data.items {
			items[i] = videoItem{item: it}
		}
		m.itemList = list.New(items, list.NewDefaultDelegate(), m.width-4, m.height-8)
		m.itemList.Title = fmt.Sprintf("Items in '%s'", m.selected.Title)
		m.view = ItemListView
		return m, nil

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		if m.progress.Err != nil {
			m.failed++
		}
		return m, waitForProgress(m.progressChan)

	case MsgShuffleComplete:
		data := msg.data.(shuffleComplete)
		m.report = data.report
		if !m.interrupted {
			m.err = data.err
		}
		m.stopShuffle()
		m.progressChan = nil
		m.view = ResultView
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.Err(fmt.Sprintf("Error: %v\n\nPress esc to go back, q to quit", m.err))
	}

	switch m.view {
	case PlaylistListView:
		return m.renderPlaylistList()
	case ItemListView:
		return m.renderItemList()
	case ConfirmView:
		return m.renderConfirm()
	case ShuffleView:
		return m.renderShuffle()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleErrorKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.err = nil
	}
	return m, nil
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.playlistList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.playlistList, cmd = m.playlistList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.pick):
		if pl, ok := m.playlistList.SelectedItem().(playlistItem); ok {
			m.selected = &pl.playlist
			return m, m.fetchItems(pl.playlist.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleItemListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = PlaylistListView
		return m, nil
	case key.Matches(msg, m.keys.shuffle):
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.itemList, cmd = m.itemList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.confirm):
		m.view = ShuffleView
		return m, m.startShuffle()
	case key.Matches(msg, m.keys.cancel), key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.view = ItemListView
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.again):
		m.view = PlaylistListView
		m.selected = nil
		m.items = nil
		m.report = nil
		m.err = nil
		m.failed = 0
		m.progress = tasks.ProgressUpdate{}
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case ItemListView:
		m.itemList, cmd = m.itemList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchItems(playlistID string) tea.Cmd {
	ctx, listItems := m.ctx, m.actions.ListItems
	return func() tea.Msg {
		items, err := listItems(ctx, playlistID)
		return itemsFetchedMsg(items, err)
	}
}

func (m *Model) startShuffle() tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 100)
	m.progressChan = progress
	m.failed = 0
	m.interrupted = false

	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	shuffle, items := m.actions.Shuffle, m.items
	return tea.Batch(
		func() tea.Msg {
			report, err := shuffle(ctx, items, progress)
			close(progress)
			return shuffleCompleteMsg(report, err)
		},
		waitForProgress(progress),
	)
}

// interrupt cancels a running shuffle and records that the playlist was left partially reordered.
func (m *Model) interrupt() {
	m.stopShuffle()
	m.interrupted = true
	m.err = fmt.Errorf("%w: shuffle interrupted after %d of %d items", shared.ErrPartialUpdate, m.progress.Step, len(m.items))
}

func (m *Model) stopShuffle() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// waitForProgress reads the next update; it yields nothing once the channel is closed.
func waitForProgress(progress <-chan tasks.ProgressUpdate) tea.Cmd {
	if progress == nil {
		return nil
	}
	return func() tea.Msg {
		update, ok := <-progress
		if !ok {
			return nil
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderPlaylistList() string {
	helpView := m.help.ShortHelpView(m.keys.playlistHelp())
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}

func (m *Model) renderItemList() string {
	helpView := m.help.ShortHelpView(m.keys.itemHelp())
	return fmt.Sprintf("%s\n\n%s", m.itemList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.Title(fmt.Sprintf("Shuffle '%s'?", m.selected.Title))
	warning := styles.Err(SortedWarning)
	info := fmt.Sprintf("\nPlaylist: %s\nItems: %d\n", m.selected.Title, len(m.items))

	helpView := m.help.ShortHelpView(m.keys.confirmHelp())

	return fmt.Sprintf("%s\n%s\n%s\n%s", title, warning, info, helpView)
}

func (m *Model) renderShuffle() string {
	title := styles.Title(fmt.Sprintf("Shuffling %s", m.selected.Title))

	var phase string
	switch m.progress.Phase {
	case tasks.UpdateItem:
		phase = fmt.Sprintf("Updating items (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.Complete:
		phase = "Finishing..."
	default:
		phase = "Shuffling..."
	}

	status := m.progress.Message
	if m.progress.Err != nil {
		status = styles.Warn(status)
	}

	var failed string
	if m.failed > 0 {
		failed = "\n" + styles.Warn(fmt.Sprintf("%d failed so far", m.failed))
	}

	return fmt.Sprintf("%s\n\n%s\n%s%s", title, phase, status, failed)
}

func (m *Model) renderResult() string {
	helpKeys := m.keys.resultHelp()
	helpView := m.help.ShortHelpView(helpKeys)

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s", styles.Err(fmt.Sprintf("Shuffle stopped: %v", m.err)), helpView)
	}
	if m.report == nil {
		return fmt.Sprintf("%s\n\n%s", styles.Err("No result available"), helpView)
	}

	title := styles.OK("✓ Shuffle complete!")
	info := fmt.Sprintf("\nPlaylist: %s\nProcessed: %d\nFailed: %d", m.selected.Title, m.report.Processed, m.report.Failed)

	var failed string
	if m.report.Failed > 0 {
		failed = fmt.Sprintf("\n\n%s", styles.Warn(fmt.Sprintf("Could not update %d items:", m.report.Failed)))
		for _, f := range m.report.Failures {
			failed += fmt.Sprintf("\n  • %s (%v)", f.Item.Title, f.Err)
		}
	}

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, helpView)
}

// Run starts the TUI and returns the final model once the user quits.
func Run(ctx context.Context, playlists []models.Playlist, actions Actions, opts ...tea.ProgramOption) (*Model, error) {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	final, err := tea.NewProgram(NewModel(ctx, playlists, actions), opts...).Run()
	if err != nil {
		return nil, fmt.Errorf("TUI error: %w", err)
	}
	return final.(*Model), nil
}
