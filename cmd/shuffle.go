package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/desertthunder/ytshuffle/internal/formatter"
	"github.com/desertthunder/ytshuffle/internal/models"
	"github.com/desertthunder/ytshuffle/internal/shared"
	"github.com/desertthunder/ytshuffle/internal/tasks"
	"github.com/desertthunder/ytshuffle/internal/ui"
	"github.com/urfave/cli/v3"
)

const noPlaylistsMessage = "[ERROR] No playlists found, make sure there are some on your YouTube account"

// Shuffle runs the full pipeline: authenticate, list playlists, select one, shuffle and persist it.
func (r *Runner) Shuffle(ctx context.Context, cmd *cli.Command) error {
	interactive := cmd.Bool("tui") && r.isTerminal()
	if interactive {
		if err := r.useFileLogger(); err != nil {
			return err
		}
	}

	if err := r.prepare(ctx, cmd); err != nil {
		return err
	}

	playlists, err := r.fetchPlaylists(ctx)
	if err != nil {
		return err
	}

	if interactive {
		return r.TUI(ctx, playlists)
	}

	r.writePlain("Found %d playlists\n", len(playlists))
	r.writeBytes(formatter.Playlists(playlists))
	r.writePlain("%s\n", r.palette.Err(ui.SortedWarning))

	idx, err := r.selectPlaylist(cmd, len(playlists))
	if err != nil {
		return err
	}
	selected := playlists[idx]
	r.writePlain("Chose %s, with id: %s\n", selected.Title, selected.ID)

	items, err := r.fetchItems(ctx, selected.ID)
	if err != nil {
		return err
	}
	r.writeBytes(formatter.Items(items))

	report, err := r.shuffleItems(ctx, items)
	if err != nil {
		return err
	}

	r.writeBytes(formatter.Items(report.Order))
	r.writeBytes(formatter.Summary(selected.Title, report.Processed, report.Failed))
	if err := report.Err(); err != nil {
		r.logger.Warn("playlist partially shuffled", "playlist", selected.ID, "failed", report.Failed)
		r.writePlain("%s\n", r.palette.Warn(err.Error()))
	}
	return nil
}

// Playlists prints the playlists of the authenticated account.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	if err := r.prepare(ctx, cmd); err != nil {
		return err
	}

	playlists, err := r.fetchPlaylists(ctx)
	if err != nil {
		return err
	}

	r.writePlain("Found %d playlists\n", len(playlists))
	return r.writeBytes(formatter.Playlists(playlists))
}

// fetchPlaylists lists every playlist, reporting [shared.ErrNoPlaylists] for an empty account.
func (r *Runner) fetchPlaylists(ctx context.Context) ([]models.Playlist, error) {
	var playlists []models.Playlist
	err := r.tokens.Do(ctx, func(ctx context.Context, token string) error {
		var err error
		playlists, err = r.playlists.ListPlaylists(ctx, token)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}

	if len(playlists) == 0 {
		r.writePlain("%s\n", r.palette.Err(noPlaylistsMessage))
		return nil, shared.ErrNoPlaylists
	}
	return playlists, nil
}

func (r *Runner) fetchItems(ctx context.Context, playlistID string) ([]models.PlaylistItem, error) {
	var items []models.PlaylistItem
	err := r.tokens.Do(ctx, func(ctx context.Context, token string) error {
		var err error
		items, err = r.playlists.ListItems(ctx, token, playlistID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list playlist items: %w", err)
	}
	return items, nil
}

// shuffleItems runs the shuffle engine and prints its progress as it arrives.
func (r *Runner) shuffleItems(ctx context.Context, items []models.PlaylistItem) (*tasks.ShuffleReport, error) {
	progress := make(chan tasks.ProgressUpdate, len(items)+2)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.printProgress(update)
		}
	}()

	report, err := r.shuffleAction(ctx, items, progress)
	close(progress)
	<-done

	return report, err
}

// shuffleAction persists a shuffled order with a token from the manager.
//
// Per-item failures stay in the report, so the token manager never retries a partially applied order.
func (r *Runner) shuffleAction(ctx context.Context, items []models.PlaylistItem, progress chan<- tasks.ProgressUpdate) (*tasks.ShuffleReport, error) {
	var report *tasks.ShuffleReport
	err := r.tokens.Do(ctx, func(ctx context.Context, token string) error {
		var err error
		report, err = r.engine.ShuffleAndPersist(ctx, token, items, progress)
		return err
	})
	return report, err
}

func (r *Runner) printProgress(update tasks.ProgressUpdate) {
	switch {
	case update.Err != nil:
		r.writePlain("%s\n", r.palette.Err(update.Message))
	case update.Phase == tasks.UpdateItem:
		r.writePlain("%s\n", r.palette.OK(update.Message))
	default:
		r.writePlain("%s\n", update.Message)
	}
}

// selectPlaylist returns the zero-based index chosen with --index or at the prompt.
func (r *Runner) selectPlaylist(cmd *cli.Command, n int) (int, error) {
	if cmd.IsSet("index") {
		return ParseSelection(strconv.Itoa(cmd.Int("index")), n)
	}

	r.writePlain("Please enter a playlist number [1-%d]: ", n)
	line, err := r.input.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return 0, fmt.Errorf("%w: no input", shared.ErrInvalidSelection)
	}
	return ParseSelection(line, n)
}

// ParseSelection converts a 1-based playlist number into a zero-based index into n playlists.
func ParseSelection(input string, n int) (int, error) {
	input = strings.TrimSpace(input)
	choice, err := strconv.Atoi(input)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", shared.ErrInvalidSelection, input)
	}
	if choice < 1 || choice > n {
		return 0, fmt.Errorf("%w: %d is not between 1 and %d", shared.ErrInvalidSelection, choice, n)
	}
	return choice - 1, nil
}
