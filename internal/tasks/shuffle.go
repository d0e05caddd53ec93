package tasks

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytshuffle/internal/models"
	"github.com/desertthunder/ytshuffle/internal/shared"
	"golang.org/x/time/rate"
)

// ItemUpdater persists a playlist item's position.
type ItemUpdater interface {
	UpdateItemPosition(ctx context.Context, token string, item models.PlaylistItem) error
}

// ItemFailure records an update that did not go through.
type ItemFailure struct {
	Index int
	Item  models.PlaylistItem
	Err   error
}

// ShuffleReport summarises a shuffle run.
type ShuffleReport struct {
	Processed int                   // Updates attempted
	Failed    int                   // Updates that returned an error
	Failures  []ItemFailure         // One entry per failed update, in loop order
	Order     []models.PlaylistItem // Shuffled items with their new positions
}

// Err returns [shared.ErrPartialUpdate] when at least one update failed.
func (r *ShuffleReport) Err() error {
	if r.Failed == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d of %d", shared.ErrPartialUpdate, r.Failed, r.Processed)
}

// ShuffleEngine shuffles playlist snapshots and writes the new order back one item at a time.
type ShuffleEngine struct {
	updater ItemUpdater
	limiter *rate.Limiter
	rng     *rand.Rand
	logger  *log.Logger
}

// EngineOption configures a [ShuffleEngine].
type EngineOption func(*ShuffleEngine)

// WithRand sets the random source; tests pass a seeded one.
func WithRand(r *rand.Rand) EngineOption {
	return func(e *ShuffleEngine) { e.rng = r }
}

// WithRateLimit paces updates to rps requests per second. Zero or less disables pacing.
func WithRateLimit(rps float64, burst int) EngineOption {
	return func(e *ShuffleEngine) {
		if burst < 1 {
			burst = 1
		}
		if rps <= 0 {
			e.limiter = rate.NewLimiter(rate.Inf, burst)
			return
		}
		e.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the engine's logger.
func WithLogger(l *log.Logger) EngineOption {
	return func(e *ShuffleEngine) { e.logger = l }
}

func NewShuffleEngine(updater ItemUpdater, opts ...EngineOption) *ShuffleEngine {
	e := &ShuffleEngine{
		updater: updater,
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = shared.NewLogger(nil)
	}
	return e
}

// Shuffle returns a uniformly shuffled copy of items with Position set to each item's new index.
func (e *ShuffleEngine) Shuffle(items []models.PlaylistItem) []models.PlaylistItem {
	order := make([]models.PlaylistItem, len(items))
	copy(order, items)

	swap := func(i, j int) { order[i], order[j] = order[j], order[i] }
	if e.rng != nil {
		e.rng.Shuffle(len(order), swap)
	} else {
		rand.Shuffle(len(order), swap)
	}

	for i := range order {
		order[i].Position = uint(i)
	}
	return order
}

// ShuffleAndPersist shuffles items and issues one position update per item in the new order.
//
// Update failures are logged and recorded in the report. The returned error is non-nil only when ctx ends
// the run; the report then covers the items processed so far.
func (e *ShuffleEngine) ShuffleAndPersist(ctx context.Context, token string, items []models.PlaylistItem, progress chan<- ProgressUpdate) (*ShuffleReport, error) {
	order := e.Shuffle(items)
	report := &ShuffleReport{Order: order}
	total := len(order)

	e.sendProgress(progress, shuffledUpdate(total))

	for i, item := range order {
		if err := e.limiter.Wait(ctx); err != nil {
			return report, fmt.Errorf("shuffle interrupted after %d of %d items: %w", report.Processed, total, err)
		}

		report.Processed++
		if err := e.updater.UpdateItemPosition(ctx, token, item); err != nil {
			report.Failed++
			report.Failures = append(report.Failures, ItemFailure{Index: i, Item: item, Err: err})
			e.logger.Error("error while updating item", "id", item.ID, "position", item.Position, "error", err)
			e.sendProgress(progress, itemFailedUpdate(i+1, total, item, err))
			continue
		}
		e.sendProgress(progress, itemUpdatedUpdate(i+1, total, item))
	}

	e.sendProgress(progress, completeUpdate(report))
	return report, nil
}

// sendProgress sends a progress update through the channel without blocking.
func (e *ShuffleEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
