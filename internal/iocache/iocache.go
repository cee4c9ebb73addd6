// Package iocache persists scores and growth plans and serializes runs that share a plan.
package iocache

import (
	"sync"

	"github.com/huangsam/maturity/internal/contract"
)

// StoreManager holds the assessment store and the run locker.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	assessment   contract.AssessmentStore
	locker       contract.PlanLocker
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetAssessmentStore returns the AssessmentStore.
func (mgr *StoreManager) GetAssessmentStore() contract.AssessmentStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.assessment
}

// GetLocker returns the PlanLocker.
func (mgr *StoreManager) GetLocker() contract.PlanLocker {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.locker
}
