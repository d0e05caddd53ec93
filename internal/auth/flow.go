package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytshuffle/internal/models"
	"github.com/desertthunder/ytshuffle/internal/pkce"
	"github.com/desertthunder/ytshuffle/internal/server"
	"github.com/desertthunder/ytshuffle/internal/shared"
	"golang.org/x/oauth2"
)

// RedirectWaiter blocks until the authorization redirect arrives on addr or timeout passes.
type RedirectWaiter func(ctx context.Context, addr string, timeout time.Duration) (server.Redirect, error)

// Presenter shows the authorization URL to the user.
type Presenter func(authURL string)

// Flow performs the authorization code flow with PKCE and the token endpoint calls that follow it.
type Flow struct {
	endpoints  Endpoints
	config     *oauth2.Config
	addr       string
	timeout    time.Duration
	wait       RedirectWaiter
	present    Presenter
	httpClient *http.Client
	logger     *log.Logger
}

// FlowOption configures a [Flow].
type FlowOption func(*Flow)

// WithEndpoints replaces the provider endpoints.
func WithEndpoints(e Endpoints) FlowOption {
	return func(f *Flow) { f.endpoints = e }
}

// WithRedirectWaiter replaces the local listener.
func WithRedirectWaiter(w RedirectWaiter) FlowOption {
	return func(f *Flow) { f.wait = w }
}

// WithPresenter sets how the authorization URL reaches the user.
func WithPresenter(p Presenter) FlowOption {
	return func(f *Flow) { f.present = p }
}

// WithHTTPClient sets the client used for token and revocation requests.
func WithHTTPClient(c *http.Client) FlowOption {
	return func(f *Flow) { f.httpClient = c }
}

// WithFlowLogger sets the flow's logger.
func WithFlowLogger(l *log.Logger) FlowOption {
	return func(f *Flow) { f.logger = l }
}

// NewFlow creates a flow for the Google client in cfg.
func NewFlow(cfg *shared.Config, opts ...FlowOption) *Flow {
	f := &Flow{
		endpoints:  GoogleEndpoints(),
		addr:       cfg.Auth.ListenAddress(),
		timeout:    cfg.Auth.Timeout(),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.logger == nil {
		f.logger = shared.NewLogger(nil)
	}
	if f.wait == nil {
		f.wait = func(ctx context.Context, addr string, timeout time.Duration) (server.Redirect, error) {
			return server.AwaitRedirect(ctx, addr, timeout, server.WithLogger(f.logger))
		}
	}
	if f.present == nil {
		f.present = func(authURL string) {
			f.logger.Info("open this URL to authorize", "url", authURL)
		}
	}

	f.config = &oauth2.Config{
		ClientID:     cfg.Credentials.Google.ClientID,
		ClientSecret: cfg.Credentials.Google.ClientSecret,
		RedirectURL:  cfg.Auth.RedirectURI,
		Scopes:       Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   f.endpoints.AuthURL,
			TokenURL:  f.endpoints.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	return f
}

// AuthURL builds the authorization URL for session.
func (f *Flow) AuthURL(session models.AuthSession) string {
	return f.config.AuthCodeURL(session.State,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.SetAuthURLParam("code_challenge", session.CodeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// Authorize runs the full authorization dance and returns the issued credential.
func (f *Flow) Authorize(ctx context.Context) (*models.Credential, error) {
	session := pkce.Generate()
	f.present(f.AuthURL(session))

	rd, err := f.wait(ctx, f.addr, f.timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}

	if rd.State != session.State {
		return nil, shared.ErrCsrfMismatch
	}

	tok, err := f.config.Exchange(f.clientContext(ctx), rd.Code, oauth2.VerifierOption(session.CodeVerifier))
	if err != nil {
		return nil, tokenError(shared.ErrAuthFailed, "code exchange", err)
	}

	if tok.RefreshToken == "" {
		return nil, shared.ErrNoRefreshToken
	}

	f.logger.Debug("authorization complete", "expires_in", expiresIn(tok))
	return toCredential(tok), nil
}

// Refresh trades refreshToken for a new access token.
func (f *Flow) Refresh(ctx context.Context, refreshToken string) (*models.Credential, error) {
	src := f.config.TokenSource(f.clientContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}
	return toCredential(tok), nil
}

// Revoke asks the provider to invalidate token, which may be an access or a refresh token.
func (f *Flow) Revoke(ctx context.Context, token string) error {
	form := url.Values{"token": {token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoints.RevokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRevokeFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w: %v", shared.ErrRevokeFailed, shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrRevokeFailed, resp.StatusCode)
	}
	return nil
}

func (f *Flow) clientContext(ctx context.Context) context.Context {
	if f.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, f.httpClient)
}

// tokenError separates provider rejections from transport and decode failures.
func tokenError(rejected error, op string, err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		if re.ErrorCode != "" {
			return fmt.Errorf("%w: %s rejected: %s", rejected, op, re.ErrorCode)
		}
		return fmt.Errorf("%w: %s rejected: status %d", rejected, op, re.Response.StatusCode)
	}
	return fmt.Errorf("%w: %s: %v", shared.ErrTransport, op, err)
}

func toCredential(tok *oauth2.Token) *models.Credential {
	return &models.Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresIn:    expiresIn(tok),
	}
}

func expiresIn(tok *oauth2.Token) int64 {
	if tok.ExpiresIn > 0 {
		return tok.ExpiresIn
	}
	if tok.Expiry.IsZero() {
		return 0
	}
	return int64(time.Until(tok.Expiry).Round(time.Second).Seconds())
}
