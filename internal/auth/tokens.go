package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytshuffle/internal/credentials"
	"github.com/desertthunder/ytshuffle/internal/models"
	"github.com/desertthunder/ytshuffle/internal/shared"
)

// DefaultService is the credential store service name tokens are kept under.
const DefaultService = "yt-randomizer"

// Provider is the token endpoint surface the [TokenManager] drives. [*Flow] implements it.
type Provider interface {
	Authorize(ctx context.Context) (*models.Credential, error)
	Refresh(ctx context.Context, refreshToken string) (*models.Credential, error)
	Revoke(ctx context.Context, token string) error
}

// TokenManager owns the access and refresh tokens for the run.
type TokenManager struct {
	provider    Provider
	store       credentials.Store
	service     string
	reauthorize bool
	logger      *log.Logger

	mu     sync.Mutex
	access string
}

// ManagerOption configures a [TokenManager].
type ManagerOption func(*TokenManager)

// WithService sets the credential store service name.
func WithService(name string) ManagerOption {
	return func(m *TokenManager) {
		if name != "" {
			m.service = name
		}
	}
}

// WithReauthorizeOnRefreshFailure runs a new authorization when the provider rejects a refresh.
func WithReauthorizeOnRefreshFailure(enabled bool) ManagerOption {
	return func(m *TokenManager) { m.reauthorize = enabled }
}

// WithManagerLogger sets the manager's logger.
func WithManagerLogger(l *log.Logger) ManagerOption {
	return func(m *TokenManager) { m.logger = l }
}

func NewTokenManager(provider Provider, store credentials.Store, opts ...ManagerOption) *TokenManager {
	m := &TokenManager{provider: provider, store: store, service: DefaultService}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = shared.NewLogger(nil)
	}
	return m
}

// AccessToken returns a bearer token without checking it against the provider.
//
// A stored token is used as is. When none is stored the authorization flow runs and both tokens are
// persisted; persistence failures only produce a warning. When the store cannot be read the flow runs
// and nothing is written back.
func (m *TokenManager) AccessToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.access != "" {
		return m.access, nil
	}

	token, err := m.store.Get(m.service, credentials.KeyAccess)
	switch {
	case err == nil && token != "":
		m.logger.Debug("using stored access token")
		m.access = token
		return token, nil
	case err == nil, errors.Is(err, credentials.ErrNotFound):
		return m.authorize(ctx, true)
	default:
		m.logger.Warn("could not read credential store, tokens will not be stored between sessions", "error", err)
		return m.authorize(ctx, false)
	}
}

// Refresh replaces the access token using the stored refresh token.
func (m *TokenManager) Refresh(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	refresh, err := m.store.Get(m.service, credentials.KeyRefresh)
	if err != nil {
		return "", fmt.Errorf("%w: reading refresh token: %w", shared.ErrCredentialStore, err)
	}

	cred, err := m.provider.Refresh(ctx, refresh)
	if err != nil {
		if !m.reauthorize {
			return "", err
		}
		m.logger.Warn("refresh rejected, starting a new authorization", "error", err)
		return m.authorize(ctx, true)
	}

	m.persist(credentials.KeyAccess, cred.AccessToken)
	if cred.RefreshToken != "" && cred.RefreshToken != refresh {
		m.persist(credentials.KeyRefresh, cred.RefreshToken)
	}

	m.logger.Info("access token refreshed")
	m.access = cred.AccessToken
	return cred.AccessToken, nil
}

// Do runs op with the current access token. An [shared.ErrUnauthorized] from op triggers exactly one refresh
// and one retry; the retry's error is returned unchanged.
func (m *TokenManager) Do(ctx context.Context, op func(ctx context.Context, token string) error) error {
	token, err := m.AccessToken(ctx)
	if err != nil {
		return err
	}

	err = op(ctx, token)
	if !errors.Is(err, shared.ErrUnauthorized) {
		return err
	}

	m.logger.Info("access token rejected, refreshing")
	if token, err = m.Refresh(ctx); err != nil {
		return err
	}
	return op(ctx, token)
}

// ClearResult is the outcome of clearing one stored token.
type ClearResult struct {
	Key     string
	Found   bool
	Revoked bool
	Deleted bool
	Err     error
}

// ClearReport collects the results for the access and refresh tokens.
type ClearReport struct {
	Results []ClearResult
}

// Err joins every per-key error, or returns nil when all keys were handled.
func (r ClearReport) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Key, res.Err))
		}
	}
	return errors.Join(errs...)
}

// Clear revokes and deletes the access token, then the refresh token.
//
// A token whose revocation fails is kept unless force is set. Failures on one key never stop the other.
func (m *TokenManager) Clear(ctx context.Context, force bool) ClearReport {
	m.mu.Lock()
	defer m.mu.Unlock()

	var report ClearReport
	for _, key := range []string{credentials.KeyAccess, credentials.KeyRefresh} {
		report.Results = append(report.Results, m.clearKey(ctx, key, force))
	}
	m.access = ""
	return report
}

func (m *TokenManager) clearKey(ctx context.Context, key string, force bool) ClearResult {
	res := ClearResult{Key: key}

	secret, err := m.store.Get(m.service, key)
	if errors.Is(err, credentials.ErrNotFound) {
		return res
	}
	if err != nil {
		res.Err = err
		return res
	}
	res.Found = true

	if err := m.provider.Revoke(ctx, secret); err != nil {
		res.Err = err
		if !force {
			m.logger.Warn("revocation failed, keeping token", "key", key, "error", err)
			return res
		}
		m.logger.Warn("revocation failed, deleting anyway", "key", key, "error", err)
	} else {
		res.Revoked = true
	}

	if err := m.store.Delete(m.service, key); err != nil && !errors.Is(err, credentials.ErrNotFound) {
		res.Err = errors.Join(res.Err, err)
		return res
	}
	res.Deleted = true
	return res
}

// authorize runs the flow; callers hold m.mu.
func (m *TokenManager) authorize(ctx context.Context, persist bool) (string, error) {
	cred, err := m.provider.Authorize(ctx)
	if err != nil {
		return "", err
	}

	if persist {
		m.persist(credentials.KeyAccess, cred.AccessToken)
		m.persist(credentials.KeyRefresh, cred.RefreshToken)
	}

	m.access = cred.AccessToken
	return cred.AccessToken, nil
}

func (m *TokenManager) persist(key, secret string) {
	if err := m.store.Set(m.service, key, secret); err != nil {
		m.logger.Warn("could not store token, tokens will not be stored between sessions", "key", key, "error", err)
	}
}
