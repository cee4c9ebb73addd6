package core

import (
	"context"
	"testing"
	"time"

	"github.com/huangsam/maturity/internal/contract"
	"github.com/huangsam/maturity/internal/iocache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireStore(t *testing.T) {
	_, err := requireStore(nil)
	assert.ErrorIs(t, err, errNoStore)

	empty := &iocache.MockStoreManager{}
	empty.On("GetAssessmentStore").Return(nil)
	_, err = requireStore(empty)
	assert.ErrorIs(t, err, errNoStore)

	store := &iocache.MockAssessmentStore{}
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetAssessmentStore").Return(store)
	got, err := requireStore(mgr)
	require.NoError(t, err)
	assert.Same(t, store, got)
}

func TestAcquireLock(t *testing.T) {
	ctx := context.Background()

	t.Run("no manager", func(t *testing.T) {
		release, err := acquireLock(ctx, nil, "plan:x", time.Second)
		require.NoError(t, err)
		assert.NotPanics(t, release)
	})

	t.Run("default ttl", func(t *testing.T) {
		locker := &iocache.MockPlanLocker{}
		mgr := &iocache.MockStoreManager{}
		mgr.On("GetLocker").Return(locker)
		locker.On("Acquire", ctx, "plan:x", contract.DefaultLockTTL).Return(nil, nil)

		release, err := acquireLock(ctx, mgr, "plan:x", 0)
		require.NoError(t, err)
		assert.NotPanics(t, release, "nil release is replaced by a no-op")
		locker.AssertExpectations(t)
	})

	t.Run("real memory locker", func(t *testing.T) {
		locker := iocache.NewMemoryLocker()
		mgr := &iocache.MockStoreManager{}
		mgr.On("GetLocker").Return(locker)

		release, err := acquireLock(ctx, mgr, "plan:x", time.Minute)
		require.NoError(t, err)

		_, err = acquireLock(ctx, mgr, "plan:x", time.Minute)
		assert.ErrorIs(t, err, contract.ErrLockHeld)
		assert.Contains(t, err.Error(), "cannot lock plan:x")

		release()
		release2, err := acquireLock(ctx, mgr, "plan:x", time.Minute)
		require.NoError(t, err)
		release2()
	})
}
