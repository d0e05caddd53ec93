// Package server captures the OAuth2 authorization redirect on a local address.
//
// # Listener
//
// [Listener] is an explicit state machine:
//
//	Idle → Listening(deadline) → Captured | TimedOut | Failed
//
// [Listener.Listen] binds the address (failures wrap [shared.ErrBind]) and [Listener.Await] serves until a
// request carrying a non-empty code parameter arrives, the caller's deadline passes ([shared.ErrTimeout]) or the
// context is cancelled. The listener never validates the state parameter; that is the caller's job.
//
// # Redirect Handler
//
// [RedirectHandler] answers the captured request with a static plain-text confirmation and discards requests
// that lack a code, so favicon fetches and probes do not end the wait. It only captures once.
//
// # Router Infrastructure
//
// [BasicRouter] wraps [http.ServeMux] with method filtering and [Middleware] applied in reverse order
// (last added executes first). [RequestLogger] logs method, path and status without the query string.
package server
