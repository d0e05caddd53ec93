package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytshuffle/internal/models"
	"github.com/desertthunder/ytshuffle/internal/shared"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	// ItemsPageSize is the largest page the playlistItems endpoint serves.
	ItemsPageSize = 50

	videoKind = "youtube#video"
)

var snippetPart = []string{"snippet"}

// YouTubeService implements [PlaylistClient] on the YouTube Data API v3.
type YouTubeService struct {
	svc    *youtube.Service
	logger *log.Logger
}

type youtubeOptions struct {
	httpClient *http.Client
	endpoint   string
	logger     *log.Logger
}

// YouTubeOption configures a [YouTubeService].
type YouTubeOption func(*youtubeOptions)

// WithHTTPClient sets the client used for API calls.
func WithHTTPClient(c *http.Client) YouTubeOption {
	return func(o *youtubeOptions) { o.httpClient = c }
}

// WithEndpoint overrides the API base URL, e.g. "http://127.0.0.1:9999/".
func WithEndpoint(endpoint string) YouTubeOption {
	return func(o *youtubeOptions) { o.endpoint = endpoint }
}

// WithLogger sets the service logger.
func WithLogger(l *log.Logger) YouTubeOption {
	return func(o *youtubeOptions) { o.logger = l }
}

// NewYouTubeService creates the API client. Credentials are not attached to the client; each call carries the
// token it is given.
func NewYouTubeService(ctx context.Context, opts ...YouTubeOption) (*YouTubeService, error) {
	o := youtubeOptions{httpClient: http.DefaultClient}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = shared.NewLogger(nil)
	}

	clientOpts := []option.ClientOption{option.WithHTTPClient(o.httpClient)}
	if o.endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(o.endpoint))
	}

	svc, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube client: %w", err)
	}
	return &YouTubeService{svc: svc, logger: o.logger}, nil
}

// PlaylistsPage fetches one page of the user's playlists.
func (y *YouTubeService) PlaylistsPage(ctx context.Context, token, cursor string) (*models.Page[models.Playlist], error) {
	call := y.svc.Playlists.List(snippetPart).Mine(true).Context(ctx)
	if cursor != "" {
		call = call.PageToken(cursor)
	}
	call.Header().Set("Authorization", "Bearer "+token)

	resp, err := call.Do()
	if err != nil {
		return nil, apiError("list playlists", err)
	}

	page := &models.Page[models.Playlist]{
		Items:      make([]models.Playlist, 0, len(resp.Items)),
		NextCursor: resp.NextPageToken,
	}
	if resp.PageInfo != nil {
		page.TotalCount = count(resp.PageInfo.TotalResults)
		page.PageSize = count(resp.PageInfo.ResultsPerPage)
	}
	for _, p := range resp.Items {
		pl := models.Playlist{ID: p.Id}
		if p.Snippet != nil {
			pl.Title = p.Snippet.Title
		}
		page.Items = append(page.Items, pl)
	}
	return page, nil
}

// ItemsPage fetches one page of a playlist's items.
func (y *YouTubeService) ItemsPage(ctx context.Context, token, playlistID, cursor string) (*models.Page[models.PlaylistItem], error) {
	call := y.svc.PlaylistItems.List(snippetPart).
		PlaylistId(playlistID).
		MaxResults(ItemsPageSize).
		Context(ctx)
	if cursor != "" {
		call = call.PageToken(cursor)
	}
	call.Header().Set("Authorization", "Bearer "+token)

	resp, err := call.Do()
	if err != nil {
		return nil, apiError("list playlist items", err)
	}

	page := &models.Page[models.PlaylistItem]{
		Items:      make([]models.PlaylistItem, 0, len(resp.Items)),
		NextCursor: resp.NextPageToken,
	}
	if resp.PageInfo != nil {
		page.TotalCount = count(resp.PageInfo.TotalResults)
		page.PageSize = count(resp.PageInfo.ResultsPerPage)
	}
	for _, it := range resp.Items {
		page.Items = append(page.Items, toPlaylistItem(it, playlistID))
	}
	return page, nil
}

func (y *YouTubeService) ListPlaylists(ctx context.Context, token string) ([]models.Playlist, error) {
	return Collect(ctx, func(ctx context.Context, cursor string) (*models.Page[models.Playlist], error) {
		return y.PlaylistsPage(ctx, token, cursor)
	})
}

func (y *YouTubeService) ListItems(ctx context.Context, token, playlistID string) ([]models.PlaylistItem, error) {
	return Collect(ctx, func(ctx context.Context, cursor string) (*models.Page[models.PlaylistItem], error) {
		return y.ItemsPage(ctx, token, playlistID, cursor)
	})
}

// UpdateItemPosition sends a snippet update that moves item to item.Position.
func (y *YouTubeService) UpdateItemPosition(ctx context.Context, token string, item models.PlaylistItem) error {
	kind := item.ResourceID.Kind
	if kind == "" {
		kind = videoKind
	}

	body := &youtube.PlaylistItem{
		Id: item.ID,
		Snippet: &youtube.PlaylistItemSnippet{
			PlaylistId: item.PlaylistID,
			Position:   int64(item.Position),
			ResourceId: &youtube.ResourceId{
				Kind:    kind,
				VideoId: item.ResourceID.ExternalID,
			},
			// position 0 would otherwise be dropped as the zero value
			ForceSendFields: []string{"Position"},
		},
	}

	call := y.svc.PlaylistItems.Update(snippetPart, body).Context(ctx)
	call.Header().Set("Authorization", "Bearer "+token)

	if _, err := call.Do(); err != nil {
		return apiError("update playlist item", err)
	}
	y.logger.Debug("playlist item updated", "id", item.ID, "position", item.Position)
	return nil
}

func toPlaylistItem(it *youtube.PlaylistItem, playlistID string) models.PlaylistItem {
	item := models.PlaylistItem{ID: it.Id, PlaylistID: playlistID}
	if s := it.Snippet; s != nil {
		item.Title = s.Title
		if s.Position > 0 {
			item.Position = uint(s.Position)
		}
		if s.PlaylistId != "" {
			item.PlaylistID = s.PlaylistId
		}
		if s.ResourceId != nil {
			item.ResourceID = models.ResourceID{Kind: s.ResourceId.Kind, ExternalID: s.ResourceId.VideoId}
		}
	}
	return item
}

// apiError maps a client error to ErrUnauthorized for 401 responses and ErrTransport otherwise.
// count converts a provider-reported count, treating negative values as unknown.
func count(n int64) uint {
	if n < 0 {
		return 0
	}
	return uint(n)
}

func apiError(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if gerr.Code == http.StatusUnauthorized {
			return fmt.Errorf("%w: %s", shared.ErrUnauthorized, op)
		}
		return fmt.Errorf("%w: %s: status %d: %s", shared.ErrTransport, op, gerr.Code, gerr.Message)
	}
	return fmt.Errorf("%w: %s: %w", shared.ErrTransport, op, err)
}
