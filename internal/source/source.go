// Package source defines the narrow interfaces through which the sync engine
// talks to the remote health-data service. Credential handling and the wire
// format of the remote API live behind these interfaces; the engine only sees
// opaque sessions and raw payloads.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/healthsync/healthsync/internal/metrics"
)

//go:generate mockgen -destination=mocks/mock_source.go -package=mocks github.com/healthsync/healthsync/internal/source Authenticator,Client

// ErrNotFound is returned by Fetch when the remote has no data for the
// requested metric and date. An empty result is not a failure.
var ErrNotFound = errors.New("no remote data for requested metric and date")

// Session is an opaque authenticated session handle. Its contents are owned
// by the authentication collaborator.
type Session struct {
	// Token is the bearer credential for subsequent fetches.
	Token string

	// UserRef identifies the remote account the session belongs to.
	UserRef string

	// ExpiresAt is when the session stops being usable, zero if unknown.
	ExpiresAt time.Time
}

// Authenticator exchanges a stored credential reference for a session.
type Authenticator interface {
	// Authenticate resolves credentialRef (opaque, stored on the user row)
	// into a usable session. Bad credentials surface as *Error with KindAuth.
	Authenticate(ctx context.Context, credentialRef string) (*Session, error)
}

// Client fetches raw metric payloads from the remote service.
type Client interface {
	// Fetch returns the raw payload for one metric on one date, or
	// ErrNotFound when the remote has nothing for that unit.
	Fetch(ctx context.Context, sess *Session, metric metrics.Type, day metrics.Date) (json.RawMessage, error)
}

// Kind tags the cause of a remote failure. New remote failure modes are added
// by extending this enumeration, not by matching error text.
type Kind string

const (
	// KindTimeout is a network timeout or connection failure.
	KindTimeout Kind = "timeout"

	// KindRateLimited means the remote asked us to slow down.
	KindRateLimited Kind = "rate-limited"

	// KindServerError is a transient remote server failure (5xx).
	KindServerError Kind = "server-error"

	// KindAuth is an authentication or authorization failure.
	KindAuth Kind = "auth"

	// KindBadRequest means the request itself was malformed; retrying the
	// same request cannot succeed.
	KindBadRequest Kind = "bad-request"
)

// Error is a remote failure with a tagged cause.
type Error struct {
	// Kind classifies the failure.
	Kind Kind

	// Op names the operation that failed, e.g. "fetch" or "authenticate".
	Op string

	// RetryAfter is the delay requested by the remote for rate limits,
	// zero when the remote did not specify one.
	RetryAfter time.Duration

	// Err is the underlying cause.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("remote %s failed (%s): %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("remote %s failed (%s)", e.Op, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Transient reports whether retrying the same operation can succeed.
func (e *Error) Transient() bool {
	switch e.Kind {
	case KindTimeout, KindRateLimited, KindServerError:
		return true
	default:
		return false
	}
}
