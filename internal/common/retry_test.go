package common

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/modhub-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func Test_WithRetry_conflictThenSuccess(t *testing.T) {
	ctx := testutil.MockContext()

	attempts := 0
	err := WithRetry(ctx, func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return ErrStateConflict
		}

		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 3, attempts)
}

func Test_WithRetry_definitiveErrorPassesThrough(t *testing.T) {
	ctx := testutil.MockContext()

	definitive := errors.New("not enough points")
	attempts := 0
	err := WithRetry(ctx, func(ctx context.Context) error {
		attempts++
		return definitive
	})

	require.ErrorIs(t, err, definitive)
	require.Equal(t, 1, attempts)
}

func Test_WithRetry_exhaustion(t *testing.T) {
	ctx := testutil.MockContext()

	attempts := 0
	err := WithRetry(ctx, func(ctx context.Context) error {
		attempts++
		return ErrStateConflict
	})

	require.ErrorIs(t, err, ErrStateConflict)
	require.Equal(t, 5, attempts)
}

func Test_WithRetry_driverConflicts(t *testing.T) {
	ctx := testutil.MockContext()

	for _, msg := range []string{
		"Error 1213: Deadlock found when trying to get lock",
		"Error 1205: Lock wait timeout exceeded",
		"database is locked",
	} {
		attempts := 0
		err := WithRetry(ctx, func(ctx context.Context) error {
			attempts++
			if attempts == 1 {
				return errors.New(msg)
			}

			return nil
		})

		require.NoError(t, err)
		require.Equal(t, 2, attempts)
	}
}

func Test_WithRetry_concurrentCounter(t *testing.T) {
	ctx := testutil.MockContext()

	// A compare-and-swap counter under contention: every loser retries until
	// its swap lands, so no increment is ever lost. Each failed swap means
	// another worker succeeded, so five workers never exceed the attempt
	// budget.
	var counter int64
	eg := errgroup.Group{}
	for i := 0; i < 5; i++ {
		eg.Go(func() error {
			return WithRetry(ctx, func(ctx context.Context) error {
				read := atomic.LoadInt64(&counter)
				if !atomic.CompareAndSwapInt64(&counter, read, read+1) {
					return ErrStateConflict
				}

				return nil
			})
		})
	}

	require.NoError(t, eg.Wait())
	require.Equal(t, int64(5), atomic.LoadInt64(&counter))
}
