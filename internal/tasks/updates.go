package tasks

import (
	"fmt"

	"github.com/desertthunder/ytshuffle/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
	Err     error  // Set when the step failed
}

// Operation phase enumeration
type Phase int

const (
	ShufflePlaylist Phase = iota
	UpdateItem
	Complete
)

func (p Phase) String() string {
	switch p {
	case ShufflePlaylist:
		return "shuffle_playlist"
	case UpdateItem:
		return "update_item"
	case Complete:
		return "complete"
	default:
		return ""
	}
}

func shuffledUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ShufflePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Shuffled %d items", total),
	}
}

func itemUpdatedUpdate(step, total int, item models.PlaylistItem) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UpdateItem,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Item updated: %s", step, total, item.Title),
		Data:    item,
	}
}

func itemFailedUpdate(step, total int, item models.PlaylistItem, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UpdateItem,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Error while updating: %s", step, total, item.Title),
		Data:    item,
		Err:     err,
	}
}

func completeUpdate(report *ShuffleReport) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Complete,
		Step:    report.Processed,
		Total:   report.Processed,
		Message: fmt.Sprintf("Processed %d items, %d failed", report.Processed, report.Failed),
		Data:    report,
	}
}
