// Package retry runs outbound calls under a bounded retry policy: a per-attempt timeout, a fixed
// number of retries for transient failures, and exponential backoff with additive jitter.
package retry

import (
	"context"
	"errors"
	"math/rand/v2"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultAttemptTimeout = 6 * time.Second
	DefaultMaxRetries     = 2
	DefaultBaseDelay      = 250 * time.Millisecond
	DefaultMaxJitter      = 150 * time.Millisecond
)

// DefaultRetryableStatuses are the HTTP statuses worth another attempt.
var DefaultRetryableStatuses = []int{408, 425, 429, 500, 502, 503, 504}

// Timer abstracts the wait between attempts so tests can run without sleeping.
type Timer = backoff.Timer

// Policy configures Do. A zero AttemptTimeout or BaseDelay falls back to the defaults above; a zero
// MaxRetries means a single attempt and a zero MaxJitter adds no jitter. Use DefaultPolicy for the
// catalog settings.
type Policy struct {
	AttemptTimeout    time.Duration
	MaxRetries        int
	BaseDelay         time.Duration
	MaxJitter         time.Duration
	RetryableStatuses []int

	// Jitter returns an extra delay in [0, max). Defaults to a uniform random draw.
	Jitter func(max time.Duration) time.Duration
	// NewTimer supplies the timer used between attempts. Defaults to a real time.Timer.
	NewTimer func() Timer
	// OnRetry, when set, observes every failed attempt that will be retried.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// DefaultPolicy returns the catalog gateway policy.
func DefaultPolicy() Policy {
	return Policy{
		AttemptTimeout:    DefaultAttemptTimeout,
		MaxRetries:        DefaultMaxRetries,
		BaseDelay:         DefaultBaseDelay,
		MaxJitter:         DefaultMaxJitter,
		RetryableStatuses: append([]int(nil), DefaultRetryableStatuses...),
	}
}

// StatusCoder is implemented by errors carrying an HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// Delay reports the wait before the next attempt after the zero-based attempt index failed,
// excluding jitter.
func (p Policy) Delay(attempt int) time.Duration {
	base := p.BaseDelay
	if base <= 0 {
		base = DefaultBaseDelay
	}
	return base << uint(attempt)
}

// Retryable reports whether err should trigger another attempt under the policy.
func (p Policy) Retryable(err error) bool {
	if err == nil {
		return false
	}
	var coder StatusCoder
	if errors.As(err, &coder) {
		statuses := p.RetryableStatuses
		if statuses == nil {
			statuses = DefaultRetryableStatuses
		}
		code := coder.StatusCode()
		for _, s := range statuses {
			if s == code {
				return true
			}
		}
		return false
	}
	return IsTransient(err)
}

// IsTransient reports whether err is a transport failure worth retrying: connection resets,
// network timeouts, an expired attempt deadline, or any error whose text mentions a timeout.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") || strings.Contains(msg, "connection reset")
}

// Do invokes fn until it succeeds, fails with a non-retryable error, the retry budget is spent,
// or ctx is done. Each invocation receives a context bounded by the attempt timeout. The error of
// the last attempt is returned unwrapped.
func Do(ctx context.Context, policy Policy, fn func(ctx context.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	maxRetries := policy.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	timeout := policy.AttemptTimeout
	if timeout <= 0 {
		timeout = DefaultAttemptTimeout
	}

	op := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		err := fn(attemptCtx)
		if err == nil {
			return nil
		}
		// The caller gave up; nothing to retry for.
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		if !policy.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	schedule := newExponential(policy)
	var b backoff.BackOff = backoff.WithMaxRetries(schedule, uint64(maxRetries))
	b = backoff.WithContext(b, ctx)

	var notify backoff.Notify
	if policy.OnRetry != nil {
		notify = func(err error, wait time.Duration) {
			policy.OnRetry(schedule.attempt-1, err, wait)
		}
	}

	var timer Timer
	if policy.NewTimer != nil {
		timer = policy.NewTimer()
	}

	err := backoff.RetryNotifyWithTimer(op, b, notify, timer)
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return permanent.Err
	}
	return err
}

// exponential yields base * 2^attempt + jitter, attempt counting failed attempts from zero.
type exponential struct {
	policy  Policy
	attempt int
}

func newExponential(p Policy) *exponential {
	return &exponential{policy: p}
}

func (e *exponential) Reset() { e.attempt = 0 }

func (e *exponential) NextBackOff() time.Duration {
	wait := e.policy.Delay(e.attempt) + e.jitter()
	e.attempt++
	return wait
}

func (e *exponential) jitter() time.Duration {
	max := e.policy.MaxJitter
	if max <= 0 {
		return 0
	}
	if e.policy.Jitter != nil {
		return e.policy.Jitter(max)
	}
	return rand.N(max)
}
