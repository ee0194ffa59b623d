package services

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"
	"time"

	"github.com/journai/journai-core/internal/core/domain"
)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the default Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsRetryable reports whether err is a transient remote failure: the
// service answered "temporarily unavailable", or the request failed at
// the transport level.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, domain.ErrServiceUnavailable) || errors.Is(err, domain.ErrTransport) {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// Backoff returns the delay before retry number attempt (0-based):
// initial, 2*initial, 4*initial, ...
func Backoff(initial time.Duration, attempt int) time.Duration {
	return initial << attempt
}
