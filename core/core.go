// Package core has core logic for scoring assessments and replanning growth plans.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/maturity/internal/contract"
)

// ExecutorFunc defines the function signature for executing the different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// errNoStore is returned when a command needs persistence but no store is configured.
var errNoStore = errors.New("assessment store is not initialized")

// Lock key prefixes. Scores are serialized per subject, replans per plan.
const (
	scoreLockPrefix  = "score:"
	importLockPrefix = "import:"
	planLockPrefix   = "plan:"
)

// requireStore returns the assessment store of mgr or errNoStore.
func requireStore(mgr contract.StoreManager) (contract.AssessmentStore, error) {
	if mgr == nil {
		return nil, errNoStore
	}
	store := mgr.GetAssessmentStore()
	if store == nil {
		return nil, errNoStore
	}
	return store, nil
}

// acquireLock takes the run lock for key. Without a locker it is a no-op.
func acquireLock(ctx context.Context, mgr contract.StoreManager, key string, ttl time.Duration) (func(), error) {
	noop := func() {}
	if mgr == nil {
		return noop, nil
	}
	locker := mgr.GetLocker()
	if locker == nil {
		return noop, nil
	}
	if ttl <= 0 {
		ttl = contract.DefaultLockTTL
	}
	release, err := locker.Acquire(ctx, key, ttl)
	if err != nil {
		return nil, fmt.Errorf("cannot lock %s: %w", key, err)
	}
	if release == nil {
		return noop, nil
	}
	return release, nil
}
