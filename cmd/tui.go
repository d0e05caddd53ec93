package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/ytshuffle/internal/formatter"
	"github.com/desertthunder/ytshuffle/internal/models"
	"github.com/desertthunder/ytshuffle/internal/shared"
	"github.com/desertthunder/ytshuffle/internal/ui"
)

const tuiLogPath = "./tmp/ytshuffle-tui.log"

// useFileLogger redirects logs to a file to avoid interfering with TUI rendering.
//
// It must run before [Runner.prepare] so every component logs to the file.
func (r *Runner) useFileLogger() error {
	fileLogger, err := shared.NewFileLogger(tuiLogPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.logger.GetLevel())
	r.SetLogger(fileLogger)
	return nil
}

// TUI lets the user pick and shuffle a playlist in the interactive list.
func (r *Runner) TUI(ctx context.Context, playlists []models.Playlist) error {
	model, err := ui.Run(ctx, playlists, r.tuiActions())
	if err != nil {
		return err
	}

	report, err := model.Result()
	if report != nil {
		title := "playlist"
		if pl := model.Selected(); pl != nil {
			title = pl.Title
		}
		r.writeBytes(formatter.Summary(title, report.Processed, report.Failed))
	}
	if errors.Is(err, shared.ErrPartialUpdate) {
		r.writePlain("%s\n", r.palette.Warn("Shuffle interrupted, the playlist is only partially reordered"))
	}
	return err
}

// tuiActions binds the interactive list to the authenticated client.
func (r *Runner) tuiActions() ui.Actions {
	return ui.Actions{
		ListItems: r.fetchItems,
		Shuffle:   r.shuffleAction,
	}
}
