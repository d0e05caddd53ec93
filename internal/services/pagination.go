package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytshuffle/internal/models"
	"github.com/desertthunder/ytshuffle/internal/shared"
)

// PageFetcher fetches the page that starts at cursor. The first page has an empty cursor.
type PageFetcher[T any] func(ctx context.Context, cursor string) (*models.Page[T], error)

// Collect follows cursors from the first page until NextCursor is empty and returns all items in order.
//
// The provider's TotalCount is informational only; the result grows with the items actually received.
func Collect[T any](ctx context.Context, fetch PageFetcher[T]) ([]T, error) {
	var (
		items  []T
		cursor string
		seen   = make(map[string]struct{})
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := fetch(ctx, cursor)
		if err != nil {
			return nil, err
		}

		items = append(items, page.Items...)

		if page.NextCursor == "" {
			return items, nil
		}
		if _, ok := seen[page.NextCursor]; ok {
			return nil, fmt.Errorf("%w: page cursor %q repeated", shared.ErrTransport, page.NextCursor)
		}
		seen[page.NextCursor] = struct{}{}
		cursor = page.NextCursor
	}
}
