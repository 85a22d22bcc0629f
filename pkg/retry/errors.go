package retry

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"syscall"
)

// retriableError marks a failure as transient
type retriableError struct {
	err error
}

func (e *retriableError) Error() string { return e.err.Error() }

func (e *retriableError) Unwrap() error { return e.err }

// Mark wraps err as retriable. The original error stays reachable with errors.Is/As.
func Mark(err error) error {
	if err == nil {
		return nil
	}
	return &retriableError{err: err}
}

// IsRetriable reports whether err was explicitly marked as retriable. It is the default predicate.
func IsRetriable(err error) bool {
	var re *retriableError
	return errors.As(err, &re)
}

// IsNetworkError reports whether err looks like a transient network failure:
// timeouts, connection reset or refused, unreachable network or host and DNS errors.
// Caller-side cancellation (context.Canceled) is not transient.
func IsNetworkError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	for _, errno := range []error{syscall.ECONNRESET, syscall.ECONNREFUSED, syscall.ECONNABORTED,
		syscall.ENETUNREACH, syscall.EHOSTUNREACH, syscall.ETIMEDOUT, syscall.EPIPE} {
		if errors.Is(err, errno) {
			return true
		}
	}

	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// IsTransient combines the explicit marker with network error classification
func IsTransient(err error) bool {
	return IsRetriable(err) || IsNetworkError(err)
}
