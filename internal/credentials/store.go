// Package credentials persists OAuth secrets under a (service, key) pair.
//
// Three backends satisfy [Store]: [KeyringStore] (the OS keychain), [SQLiteStore] (a local database for
// headless and container hosts) and [MemoryStore] (process lifetime only). Missing secrets are reported with
// [ErrNotFound]; every other failure is a [*StoreError] matching [shared.ErrCredentialStore].
package credentials

import (
	"errors"
	"fmt"

	"github.com/desertthunder/ytshuffle/internal/shared"
)

// Key names under which the two halves of a credential are stored.
const (
	KeyAccess  = "access"
	KeyRefresh = "refresh"
)

// ErrNotFound is returned when no secret exists for the requested key.
var ErrNotFound = errors.New("secret not found")

// Store is a key/value secret store scoped by service name.
//
// Writes to different keys are independent; there is no transaction spanning them.
type Store interface {
	Get(service, key string) (string, error)
	Set(service, key, secret string) error
	Delete(service, key string) error
}

// StoreError indicates a credential storage failure other than a missing secret.
type StoreError struct {
	Op      string // "get", "set", "delete"
	Service string
	Key     string
	Cause   error
}

func (e *StoreError) Error() string {
	msg := e.Op + " secret"
	if e.Key != "" {
		msg += fmt.Sprintf(" %s/%s", e.Service, e.Key)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// Is lets callers match any store failure with errors.Is(err, shared.ErrCredentialStore).
func (e *StoreError) Is(target error) bool {
	return target == shared.ErrCredentialStore
}

func storeErr(op, service, key string, cause error) error {
	return &StoreError{Op: op, Service: service, Key: key, Cause: cause}
}

// Open builds the store selected by cfg.Store.Backend.
//
// The returned close function releases backend resources and is never nil.
func Open(cfg *shared.Config) (Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store.Backend {
	case "", "keyring":
		return NewKeyringStore(), noop, nil
	case "memory":
		return NewMemoryStore(), noop, nil
	case "sqlite":
		db, err := shared.OpenMigrated(cfg.Database)
		if err != nil {
			return nil, noop, storeErr("open", cfg.Store.Service, "", err)
		}
		return NewSQLiteStore(db), db.Close, nil
	default:
		return nil, noop, fmt.Errorf("%w: unknown store backend %q", shared.ErrInvalidConfig, cfg.Store.Backend)
	}
}
