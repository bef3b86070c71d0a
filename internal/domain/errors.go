package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by providers, the feed and the CLI. Wrap them so
// callers can classify failures without importing provider SDKs.
//
//	return fmt.Errorf("resolve alert %q: %w", id, domain.ErrNotFound)
var (
	// ErrNotFound indicates an operation referenced an entity that does
	// not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidSelection indicates a provider was invoked with no
	// subscription selected. Callers are expected to short-circuit first,
	// so this is a programming error rather than a user-facing one.
	ErrInvalidSelection = errors.New("no subscription selected")

	// ErrUnauthorized indicates the request was rejected due to
	// invalid, expired, or missing credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates the provider throttled the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnavailable indicates the backend is temporarily unreachable,
	// e.g. the circuit breaker is open. It is distinct from a
	// subscription that simply has no data.
	ErrUnavailable = errors.New("temporarily unavailable")
)

// FetchError reports a transport or credential failure while talking to
// the cloud collaborator.
type FetchError struct {
	Op           string // e.g. "list resources"
	Subscription string
	// Transient is true when retrying later may succeed.
	Transient bool
	Err       error
}

func (e *FetchError) Error() string {
	if e.Subscription == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s (subscription %s): %v", e.Op, e.Subscription, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsFetchError reports whether err is or wraps a *FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// Cause renders a short, user-facing explanation of a fetch failure for
// notices.
func Cause(err error) string {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "credentials were rejected"
	case errors.Is(err, ErrUnavailable):
		return "the cloud API is temporarily unavailable"
	case errors.Is(err, ErrRateLimited):
		return "the cloud API is rate limiting requests"
	case errors.Is(err, ErrNotFound):
		return "the subscription is not configured"
	default:
		return "the live fetch failed"
	}
}
