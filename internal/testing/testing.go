// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/ytshuffle/internal/credentials"
	"github.com/desertthunder/ytshuffle/internal/models"
	"github.com/desertthunder/ytshuffle/internal/shared"
)

// FakeProvider is a test double for [auth.Provider] that counts calls.
type FakeProvider struct {
	mu sync.Mutex

	Credential   *models.Credential
	AuthorizeErr error
	Refreshed    *models.Credential
	RefreshErr   error
	RevokeErr    error

	AuthorizeCalls int
	RefreshCalls   int
	Revoked        []string
}

func (p *FakeProvider) Authorize(ctx context.Context) (*models.Credential, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.AuthorizeCalls++
	if p.AuthorizeErr != nil {
		return nil, p.AuthorizeErr
	}
	c := *p.Credential
	return &c, nil
}

func (p *FakeProvider) Refresh(ctx context.Context, refreshToken string) (*models.Credential, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.RefreshCalls++
	if p.RefreshErr != nil {
		return nil, p.RefreshErr
	}
	c := *p.Refreshed
	return &c, nil
}

func (p *FakeProvider) Revoke(ctx context.Context, token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Revoked = append(p.Revoked, token)
	return p.RevokeErr
}

// FaultyStore wraps a [credentials.MemoryStore] and fails the operations that have an error set.
type FaultyStore struct {
	*credentials.MemoryStore
	GetErr    error
	SetErr    error
	DeleteErr error
}

func NewFaultyStore() *FaultyStore {
	return &FaultyStore{MemoryStore: credentials.NewMemoryStore()}
}

func (s *FaultyStore) Get(service, key string) (string, error) {
	if s.GetErr != nil {
		return "", s.GetErr
	}
	return s.MemoryStore.Get(service, key)
}

func (s *FaultyStore) Set(service, key, secret string) error {
	if s.SetErr != nil {
		return s.SetErr
	}
	return s.MemoryStore.Set(service, key, secret)
}

func (s *FaultyStore) Delete(service, key string) error {
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	return s.MemoryStore.Delete(service, key)
}

// StoreFailure is a store error as the real backends report it.
func StoreFailure(op string) error {
	return &credentials.StoreError{Op: op, Cause: errors.New("keychain locked")}
}

// FakePlaylistClient is a test double for the YouTube playlist client.
type FakePlaylistClient struct {
	mu sync.Mutex

	Playlists    []models.Playlist
	Items        map[string][]models.PlaylistItem
	ListErr      error
	UpdateErr    map[string]error // by item ID
	Unauthorized map[string]bool  // tokens that get a 401

	Tokens  []string
	Updates []models.PlaylistItem
}

func (c *FakePlaylistClient) authorize(token string) error {
	c.Tokens = append(c.Tokens, token)
	if c.Unauthorized[token] {
		return shared.ErrUnauthorized
	}
	return nil
}

func (c *FakePlaylistClient) ListPlaylists(ctx context.Context, token string) ([]models.Playlist, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.authorize(token); err != nil {
		return nil, err
	}
	if c.ListErr != nil {
		return nil, c.ListErr
	}
	return append([]models.Playlist(nil), c.Playlists...), nil
}

func (c *FakePlaylistClient) ListItems(ctx context.Context, token, playlistID string) ([]models.PlaylistItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.authorize(token); err != nil {
		return nil, err
	}
	if c.ListErr != nil {
		return nil, c.ListErr
	}
	return append([]models.PlaylistItem(nil), c.Items[playlistID]...), nil
}

func (c *FakePlaylistClient) UpdateItemPosition(ctx context.Context, token string, item models.PlaylistItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.authorize(token); err != nil {
		return err
	}
	c.Updates = append(c.Updates, item)
	return c.UpdateErr[item.ID]
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
