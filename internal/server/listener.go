package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytshuffle/internal/shared"
)

// ListenerState is the lifecycle state of a [Listener].
type ListenerState int

const (
	Idle ListenerState = iota
	Listening
	Captured
	TimedOut
	Failed
)

func (s ListenerState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Listening:
		return "listening"
	case Captured:
		return "captured"
	case TimedOut:
		return "timed_out"
	case Failed:
		return "failed"
	default:
		return ""
	}
}

const shutdownTimeout = 5 * time.Second

// Listener is a one-shot HTTP listener for the authorization redirect.
//
// It moves Idle → Listening(deadline) → Captured, TimedOut or Failed and is not reusable.
type Listener struct {
	addr   string
	logger *log.Logger

	mu       sync.Mutex
	state    ListenerState
	deadline time.Time
	ln       net.Listener
	redirect Redirect
	err      error
}

// ListenerOption configures a [Listener].
type ListenerOption func(*Listener)

// WithLogger sets the logger used for request and lifecycle logging.
func WithLogger(logger *log.Logger) ListenerOption {
	return func(l *Listener) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewListener creates an idle listener for addr (host:port).
func NewListener(addr string, opts ...ListenerOption) *Listener {
	l := &Listener{addr: addr, state: Idle}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = shared.NewLogger(nil)
	}
	return l
}

// Listen binds the TCP address. A bind failure moves the listener to Failed and wraps [shared.ErrBind].
func (l *Listener) Listen() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ln != nil {
		return nil
	}
	if l.state != Idle {
		return fmt.Errorf("redirect listener is %s", l.state)
	}

	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		l.state = Failed
		l.err = fmt.Errorf("%w on %s: %v", shared.ErrBind, l.addr, err)
		return l.err
	}
	l.ln = ln
	return nil
}

// Addr returns the bound address, or the configured one before [Listener.Listen].
func (l *Listener) Addr() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ln != nil {
		return l.ln.Addr().String()
	}
	return l.addr
}

// State returns the current lifecycle state.
func (l *Listener) State() ListenerState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Deadline returns the deadline of the current or last wait.
func (l *Listener) Deadline() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.deadline
}

// Err returns the error that moved the listener to TimedOut or Failed.
func (l *Listener) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Await serves the redirect URI until a request with a code arrives, the deadline passes or ctx is done.
//
// A zero deadline waits without limit. The server is shut down before Await returns.
func (l *Listener) Await(ctx context.Context, deadline time.Time) (Redirect, error) {
	if err := l.Listen(); err != nil {
		return Redirect{}, err
	}

	l.mu.Lock()
	if l.state != Idle {
		l.mu.Unlock()
		return Redirect{}, fmt.Errorf("redirect listener is %s", l.state)
	}
	l.state = Listening
	l.deadline = deadline
	ln := l.ln
	l.mu.Unlock()

	handler := NewRedirectHandler(l.logger)
	router := NewBasicRouter()
	router.Use(RequestLogger(l.logger))
	router.Handle(http.MethodGet, "/", handler)

	srv := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()
	defer l.shutdown(srv)

	var expired <-chan time.Time
	if !deadline.IsZero() {
		timer := time.NewTimer(time.Until(deadline))
		defer timer.Stop()
		expired = timer.C
	}

	l.logger.Info("waiting for authorization redirect", "addr", ln.Addr().String())

	select {
	case rd := <-handler.Result():
		l.finish(Captured, nil, rd)
		return rd, nil
	case err := <-serveErr:
		err = fmt.Errorf("redirect listener stopped: %w", err)
		l.finish(Failed, err, Redirect{})
		return Redirect{}, err
	case <-expired:
		err := fmt.Errorf("%w: no authorization redirect before %s", shared.ErrTimeout, deadline.Format(time.RFC3339))
		l.finish(TimedOut, err, Redirect{})
		return Redirect{}, err
	case <-ctx.Done():
		err := ctx.Err()
		l.finish(Failed, err, Redirect{})
		return Redirect{}, err
	}
}

// Redirect returns the captured redirect once the listener is Captured.
func (l *Listener) Redirect() (Redirect, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.redirect, l.state == Captured
}

func (l *Listener) finish(state ListenerState, err error, rd Redirect) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = state
	l.err = err
	l.redirect = rd
}

func (l *Listener) shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		l.logger.Warn("error shutting down redirect listener", "error", err)
	}
}

// AwaitRedirect binds addr and waits up to timeout for the authorization redirect.
func AwaitRedirect(ctx context.Context, addr string, timeout time.Duration, opts ...ListenerOption) (Redirect, error) {
	l := NewListener(addr, opts...)
	if err := l.Listen(); err != nil {
		return Redirect{}, err
	}

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	return l.Await(ctx, deadline)
}
