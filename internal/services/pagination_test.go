package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/desertthunder/ytshuffle/internal/models"
	"github.com/desertthunder/ytshuffle/internal/shared"
)

// pagedSource serves items in pages of the given sizes, linked by cursors "c1", "c2", ...
func pagedSource(sizes ...int) (PageFetcher[int], *[]string) {
	var cursors []string
	return func(ctx context.Context, cursor string) (*models.Page[int], error) {
		cursors = append(cursors, cursor)

		index := 0
		if cursor != "" {
			if _, err := fmt.Sscanf(cursor, "c%d", &index); err != nil {
				return nil, err
			}
		}

		start := 0
		for _, n := range sizes[:index] {
			start += n
		}
		page := &models.Page[int]{TotalCount: 45, PageSize: 20}
		for i := 0; i < sizes[index]; i++ {
			page.Items = append(page.Items, start+i)
		}
		if index+1 < len(sizes) {
			page.NextCursor = fmt.Sprintf("c%d", index+1)
		}
		return page, nil
	}, &cursors
}

func TestCollect(t *testing.T) {
	t.Run("aggregates pages in order", func(t *testing.T) {
		fetch, cursors := pagedSource(20, 20, 5)

		items, err := Collect(context.Background(), fetch)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(items) != 45 {
			t.Fatalf("expected 45 items, got %d", len(items))
		}
		for i, v := range items {
			if v != i {
				t.Fatalf("item %d out of order: %d", i, v)
			}
		}

		want := []string{"", "c1", "c2"}
		if fmt.Sprint(*cursors) != fmt.Sprint(want) {
			t.Errorf("expected cursors %v, got %v", want, *cursors)
		}
	})

	t.Run("single page", func(t *testing.T) {
		fetch, cursors := pagedSource(3)
		items, err := Collect(context.Background(), fetch)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(items) != 3 || len(*cursors) != 1 {
			t.Errorf("expected 3 items from 1 request, got %d from %d", len(items), len(*cursors))
		}
	})

	t.Run("empty collection", func(t *testing.T) {
		fetch, _ := pagedSource(0)
		items, err := Collect(context.Background(), fetch)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(items) != 0 {
			t.Errorf("expected no items, got %v", items)
		}
	})

	t.Run("ignores bogus total counts", func(t *testing.T) {
		for _, total := range []uint{^uint(0), 1 << 40} {
			fetch := func(ctx context.Context, cursor string) (*models.Page[string], error) {
				return &models.Page[string]{Items: []string{"a"}, TotalCount: total}, nil
			}

			items, err := Collect(context.Background(), PageFetcher[string](fetch))
			if err != nil {
				t.Fatalf("total %d: expected no error, got %v", total, err)
			}
			if len(items) != 1 || items[0] != "a" {
				t.Errorf("total %d: expected [a], got %v", total, items)
			}
		}
	})

	t.Run("keeps duplicates", func(t *testing.T) {
		pages := map[string]*models.Page[string]{
			"":     {Items: []string{"a", "b"}, NextCursor: "next"},
			"next": {Items: []string{"b", "a"}},
		}
		items, err := Collect(context.Background(), func(ctx context.Context, cursor string) (*models.Page[string], error) {
			return pages[cursor], nil
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if fmt.Sprint(items) != "[a b b a]" {
			t.Errorf("expected [a b b a], got %v", items)
		}
	})

	t.Run("page error aborts", func(t *testing.T) {
		calls := 0
		_, err := Collect(context.Background(), func(ctx context.Context, cursor string) (*models.Page[int], error) {
			calls++
			if cursor == "" {
				return &models.Page[int]{Items: []int{1}, NextCursor: "c1"}, nil
			}
			return nil, shared.ErrUnauthorized
		})
		if !errors.Is(err, shared.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
		if calls != 2 {
			t.Errorf("expected 2 calls, got %d", calls)
		}
	})

	t.Run("repeated cursor", func(t *testing.T) {
		calls := 0
		_, err := Collect(context.Background(), func(ctx context.Context, cursor string) (*models.Page[int], error) {
			calls++
			return &models.Page[int]{Items: []int{calls}, NextCursor: "loop"}, nil
		})
		if !errors.Is(err, shared.ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
		if calls != 2 {
			t.Errorf("expected 2 calls, got %d", calls)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		fetch, cursors := pagedSource(1)
		if _, err := Collect(ctx, fetch); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if len(*cursors) != 0 {
			t.Errorf("expected no requests, got %d", len(*cursors))
		}
	})
}
