package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytshuffle/internal/auth"
	"github.com/desertthunder/ytshuffle/internal/credentials"
	"github.com/desertthunder/ytshuffle/internal/services"
	"github.com/desertthunder/ytshuffle/internal/shared"
	"github.com/desertthunder/ytshuffle/internal/tasks"
	"github.com/desertthunder/ytshuffle/internal/ui"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Dependencies left nil in [RunnerOpts] are built from the configuration on first use.
type Runner struct {
	config     *shared.Config
	lookupEnv  func(string) (string, bool)
	logger     *log.Logger
	output     io.Writer
	input      *bufio.Reader
	isTerminal func() bool
	palette    *ui.Palette
	tokens     *auth.TokenManager
	playlists  services.PlaylistClient
	engine     *tasks.ShuffleEngine
	closers    []func() error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	LookupEnv  func(string) (string, bool)
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
	IsTerminal func() bool
	Tokens     *auth.TokenManager
	Playlists  services.PlaylistClient
	Engine     *tasks.ShuffleEngine
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.LookupEnv == nil {
		opts.LookupEnv = func(string) (string, bool) { return "", false }
	}
	if opts.IsTerminal == nil {
		opts.IsTerminal = func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		}
	}

	return &Runner{
		config:     opts.Config,
		lookupEnv:  opts.LookupEnv,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      bufio.NewReader(opts.Input),
		isTerminal: opts.IsTerminal,
		palette:    ui.DefaultPalette(),
		tokens:     opts.Tokens,
		playlists:  opts.Playlists,
		engine:     opts.Engine,
	}
}

// SetLogger replaces the logger used by components built after the call.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// before applies the global flags ahead of any action.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	return ctx, nil
}

// Close releases resources opened while building dependencies.
func (r *Runner) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c())
	}
	r.closers = nil
	return errors.Join(errs...)
}

// loadConfig reads the config file named by --config (defaults when it does not exist) and overlays the environment.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	if r.config != nil {
		return r.config, nil
	}

	path := cmd.String("config")
	config := shared.DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if config, err = shared.LoadConfig(path); err != nil {
			return nil, err
		}
		r.logger.Debug("config loaded", "path", path)
	} else {
		r.logger.Debug("config file not found, using defaults", "path", path)
	}

	config.ApplyEnv(r.lookupEnv)
	r.config = config
	return config, nil
}

// prepare builds the token manager, playlist client and shuffle engine unless they were injected.
func (r *Runner) prepare(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	if r.tokens == nil {
		if err := config.Validate(); err != nil {
			return err
		}

		store, closeStore, err := credentials.Open(config)
		if err != nil {
			return err
		}
		r.closers = append(r.closers, closeStore)

		authLogger := shared.WithLogger(r.logger, "component", "auth")
		flow := auth.NewFlow(config,
			auth.WithPresenter(r.presentAuthURL),
			auth.WithFlowLogger(authLogger),
		)
		r.tokens = auth.NewTokenManager(flow, store,
			auth.WithService(config.Store.Service),
			auth.WithReauthorizeOnRefreshFailure(config.Auth.ReauthorizeOnRefreshFailure),
			auth.WithManagerLogger(authLogger),
		)
	}

	if r.playlists == nil {
		svc, err := services.NewYouTubeService(ctx, services.WithLogger(shared.WithLogger(r.logger, "component", "youtube")))
		if err != nil {
			return err
		}
		r.playlists = svc
	}

	if r.engine == nil {
		r.engine = tasks.NewShuffleEngine(r.playlists,
			tasks.WithRateLimit(config.Shuffle.RequestsPerSecond, config.Shuffle.Burst),
			tasks.WithLogger(shared.WithLogger(r.logger, "component", "shuffle")),
		)
	}

	return nil
}

// presentAuthURL prints the authorization URL and opens it when a browser is available.
func (r *Runner) presentAuthURL(authURL string) {
	r.writePlain("Open this URL in your browser: %s\n", authURL)

	if !r.config.Auth.OpenBrowser || r.config.Auth.Container {
		return
	}
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
	}
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeBytes(b []byte) error {
	if _, err := r.output.Write(b); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
