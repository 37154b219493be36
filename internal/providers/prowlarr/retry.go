package prowlarr

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"net"
	"strings"
	"time"
)

const (
	retryAttempts   = 3
	retryBaseDelay  = 500 * time.Millisecond
	retryMaxDelay   = 5 * time.Second
	retryMultiplier = 2.0
)

// retryWithBackoff retries fn with exponential backoff and ±25% jitter,
// giving up immediately on non-transient errors. Context cancellation
// between attempts is respected.
func retryWithBackoff(ctx context.Context, fn func() error) error {
	var lastErr error
	delay := retryBaseDelay

	for attempt := 0; attempt < retryAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isTransient(lastErr) || attempt == retryAttempts-1 {
			return lastErr
		}

		jittered := time.Duration(float64(delay) * (0.75 + rand.Float64()*0.5))
		if jittered > retryMaxDelay {
			jittered = retryMaxDelay
		}
		timer := time.NewTimer(jittered)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay = time.Duration(float64(delay) * retryMultiplier)
		if delay > retryMaxDelay {
			delay = retryMaxDelay
		}
	}
	return lastErr
}

func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "timeout") ||
		strings.Contains(lower, "connection reset") ||
		strings.Contains(lower, "connection refused")
}
