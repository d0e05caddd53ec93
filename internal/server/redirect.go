package server

import (
	"io"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
)

// ConfirmationBody is the static page shown in the browser once the code is captured.
const ConfirmationBody = "You can close this tab now."

// Redirect holds the query parameters of a captured authorization redirect.
type Redirect struct {
	Code  string
	State string
}

// RedirectHandler captures the first request carrying a non-empty code parameter.
//
// Requests without a code (favicon fetches, probes, provider error redirects) are answered 404 and ignored.
type RedirectHandler struct {
	logger   *log.Logger
	result   chan Redirect
	mu       sync.Mutex
	captured bool
}

// NewRedirectHandler creates a handler whose [RedirectHandler.Result] channel receives exactly one [Redirect].
func NewRedirectHandler(logger *log.Logger) *RedirectHandler {
	return &RedirectHandler{
		logger: logger,
		result: make(chan Redirect, 1),
	}
}

// ServeHTTP handles a request to the redirect URI.
func (h *RedirectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	code := query.Get("code")
	if code == "" {
		if errParam := query.Get("error"); errParam != "" {
			h.logger.Warn("provider redirected without a code", "error", errParam, "description", query.Get("error_description"))
		}
		http.NotFound(w, r)
		return
	}

	h.mu.Lock()
	if h.captured {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.captured = true
	h.mu.Unlock()

	h.result <- Redirect{Code: code, State: query.Get("state")}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, ConfirmationBody)
}

// Result returns the channel receiving the captured redirect.
func (h *RedirectHandler) Result() <-chan Redirect {
	return h.result
}
