package common

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/modhub-lab/backend/pkg/xcontext"
)

// ErrStateConflict is returned by a domain transaction body when a guarded
// write affected no rows because another transaction changed the state it
// read. The whole body is retried with a fresh snapshot.
var ErrStateConflict = errors.New("concurrent state change")

const (
	maxTransactionAttempts = 5
	retryBaseBackoff       = 20 * time.Millisecond
)

// WithRetry runs the given transaction body until it completes with a
// definitive result, bounded by maxTransactionAttempts. Only conflicts
// (ErrStateConflict, database deadlocks, serialization failures) are
// retried; validation and precondition failures pass through untouched.
// Exhaustion surfaces the last conflict to the caller.
func WithRetry(ctx context.Context, body func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt < maxTransactionAttempts; attempt++ {
		if attempt > 0 {
			xcontext.Logger(ctx).Debugf("Retrying conflicted transaction (attempt %d)", attempt+1)
			time.Sleep(time.Duration(attempt) * retryBaseBackoff)
		}

		err = body(ctx)
		if !isRetryable(err) {
			return err
		}
	}

	return err
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrStateConflict) {
		return true
	}

	// Driver-specific conflict signals: MySQL deadlock/lock timeout and the
	// sqlite busy error used by tests.
	msg := err.Error()
	return strings.Contains(msg, "Deadlock found") ||
		strings.Contains(msg, "Lock wait timeout") ||
		strings.Contains(msg, "database is locked")
}
