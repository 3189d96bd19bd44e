// Package retry classifies remote failures and bounds how often the engine
// re-attempts them. Classification works over tagged error causes, never over
// error text.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/healthsync/healthsync/internal/source"
)

// Class is the retry classification of an error.
type Class string

const (
	// ClassTransient errors may succeed on a later attempt.
	ClassTransient Class = "transient"

	// ClassFatal errors cannot succeed by retrying the same operation.
	ClassFatal Class = "fatal"
)

// Classify assigns a retry class to err. Remote errors carry their own tag;
// context cancellation is fatal because the caller asked us to stop; anything
// else is assumed transient, matching how unknown network-layer failures
// should be treated.
func Classify(err error) Class {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ClassFatal
	}

	var remoteErr *source.Error
	if errors.As(err, &remoteErr) {
		if remoteErr.Transient() {
			return ClassTransient
		}
		return ClassFatal
	}

	return ClassTransient
}

// Policy holds the retry budget and backoff shape for one kind of operation.
type Policy struct {
	// MaxAttempts caps the total number of tries, including the first.
	MaxAttempts int

	// InitialDelay is the base delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the exponential growth.
	MaxDelay time.Duration

	// OnRetry, when set, is invoked before each backoff sleep with the error
	// that caused the retry and the chosen delay.
	OnRetry func(err error, delay time.Duration)
}

// DefaultPolicy returns the retry policy used for remote fetches.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     30 * time.Second,
	}
}

// Do runs op under the policy. Transient failures are retried with
// exponential backoff and jitter up to MaxAttempts; fatal failures return
// immediately without sleeping. Rate-limit errors that carry a server-supplied
// delay honor that delay instead of the computed one.
func Do[T any](ctx context.Context, p Policy, op func() (T, error)) (T, error) {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	b := backoff.NewExponentialBackOff()
	if p.InitialDelay > 0 {
		b.InitialInterval = p.InitialDelay
	}
	if p.MaxDelay > 0 {
		b.MaxInterval = p.MaxDelay
	}

	// RetryAfterError carries only the delay, so the rate-limit cause is
	// kept aside and restored for callbacks and the final return.
	var lastRateLimited error
	wrapped := func() (T, error) {
		v, err := op()
		if err == nil {
			return v, nil
		}
		if Classify(err) == ClassFatal {
			return v, backoff.Permanent(err)
		}

		var remoteErr *source.Error
		if errors.As(err, &remoteErr) && remoteErr.Kind == source.KindRateLimited && remoteErr.RetryAfter > 0 {
			lastRateLimited = err
			return v, &backoff.RetryAfterError{Duration: remoteErr.RetryAfter}
		}
		lastRateLimited = nil
		return v, err
	}

	opts := []backoff.RetryOption{
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(attempts)),
	}
	if p.OnRetry != nil {
		opts = append(opts, backoff.WithNotify(func(err error, delay time.Duration) {
			var ra *backoff.RetryAfterError
			if errors.As(err, &ra) && lastRateLimited != nil {
				err = lastRateLimited
			}
			p.OnRetry(err, delay)
		}))
	}

	v, err := backoff.Retry(ctx, wrapped, opts...)
	if err != nil && lastRateLimited != nil {
		var ra *backoff.RetryAfterError
		if errors.As(err, &ra) {
			err = lastRateLimited
		}
	}
	return v, err
}
