package repository

import (
	"testing"
	"time"

	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_walletRepository_Create(t *testing.T) {
	ctx := testutil.MockContext()
	r := NewWalletRepository()

	created, err := r.Create(ctx, &entity.Wallet{UserID: "user1", GiftPoints: 100})
	require.NoError(t, err)
	require.True(t, created)

	// A second insert is absorbed, the existing row wins.
	created, err = r.Create(ctx, &entity.Wallet{UserID: "user1", GiftPoints: 999})
	require.NoError(t, err)
	require.False(t, created)

	wallet, err := r.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, int64(100), wallet.GiftPoints)
}

func Test_walletRepository_DeductEarned(t *testing.T) {
	ctx := testutil.MockContext()
	r := NewWalletRepository()

	_, err := r.Create(ctx, &entity.Wallet{UserID: "user1", GiftPoints: 1000, EarnedPoints: 50})
	require.NoError(t, err)

	require.NoError(t, r.DeductEarned(ctx, "user1", 30))

	wallet, err := r.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, int64(20), wallet.EarnedPoints)

	// The guard ignores the gift bucket entirely.
	err = r.DeductEarned(ctx, "user1", 21)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	wallet, err = r.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, int64(20), wallet.EarnedPoints)
	require.Equal(t, int64(1000), wallet.GiftPoints)
}

func Test_walletRepository_DeductBuckets(t *testing.T) {
	ctx := testutil.MockContext()
	r := NewWalletRepository()

	_, err := r.Create(ctx, &entity.Wallet{UserID: "user1", GiftPoints: 40, EarnedPoints: 80})
	require.NoError(t, err)

	require.NoError(t, r.DeductBuckets(ctx, "user1", 40, 60))

	wallet, err := r.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, int64(0), wallet.GiftPoints)
	require.Equal(t, int64(20), wallet.EarnedPoints)

	// A stale split fails atomically, neither bucket moves.
	err = r.DeductBuckets(ctx, "user1", 10, 20)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	wallet, err = r.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, int64(0), wallet.GiftPoints)
	require.Equal(t, int64(20), wallet.EarnedPoints)
}

func Test_walletRepository_GrantOwner(t *testing.T) {
	ctx := testutil.MockContext()
	r := NewWalletRepository()

	_, err := r.Create(ctx, &entity.Wallet{UserID: "owner"})
	require.NoError(t, err)

	cutoff := time.Now().Add(-time.Hour)

	// A wallet that never received the grant is due.
	require.NoError(t, r.GrantOwner(ctx, "owner", 10000, cutoff))

	wallet, err := r.Get(ctx, "owner")
	require.NoError(t, err)
	require.Equal(t, int64(10000), wallet.GiftPoints)
	require.True(t, wallet.LastOwnerGrantAt.Valid)

	// The grant just stamped is inside the interval, not due again.
	err = r.GrantOwner(ctx, "owner", 10000, cutoff)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Once the stamp falls behind the cutoff, the grant is due again.
	require.NoError(t, r.GrantOwner(ctx, "owner", 10000, time.Now().Add(time.Hour)))

	wallet, err = r.Get(ctx, "owner")
	require.NoError(t, err)
	require.Equal(t, int64(20000), wallet.GiftPoints)
}
