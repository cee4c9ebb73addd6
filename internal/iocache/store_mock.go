package iocache

import (
	"context"
	"time"

	"github.com/huangsam/maturity/internal/contract"
	"github.com/huangsam/maturity/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetAssessmentStore implements the StoreManager interface.
func (m *MockStoreManager) GetAssessmentStore() contract.AssessmentStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.AssessmentStore)
	return store
}

// GetLocker implements the StoreManager interface.
func (m *MockStoreManager) GetLocker() contract.PlanLocker {
	ret := m.Called()
	locker, _ := ret.Get(0).(contract.PlanLocker)
	return locker
}

// MockAssessmentStore is a mock implementation of AssessmentStore for testing.
type MockAssessmentStore struct {
	mock.Mock
}

var _ contract.AssessmentStore = &MockAssessmentStore{} // Compile-time check

// RecordScore implements the AssessmentStore interface.
func (m *MockAssessmentStore) RecordScore(ctx context.Context, record schema.ScoreRecord) (int64, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(int64), args.Error(1)
}

// LatestScore implements the AssessmentStore interface.
func (m *MockAssessmentStore) LatestScore(ctx context.Context, subjectID string) (schema.ScoreRecord, error) {
	args := m.Called(ctx, subjectID)
	return args.Get(0).(schema.ScoreRecord), args.Error(1)
}

// ListScores implements the AssessmentStore interface.
func (m *MockAssessmentStore) ListScores(ctx context.Context) ([]schema.ScoreRecord, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]schema.ScoreRecord)
	return records, args.Error(1)
}

// CreatePlan implements the AssessmentStore interface.
func (m *MockAssessmentStore) CreatePlan(ctx context.Context, plan schema.GrowthPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

// ActivePlan implements the AssessmentStore interface.
func (m *MockAssessmentStore) ActivePlan(ctx context.Context, subjectID string) (schema.GrowthPlan, error) {
	args := m.Called(ctx, subjectID)
	return args.Get(0).(schema.GrowthPlan), args.Error(1)
}

// SaveLevers implements the AssessmentStore interface.
func (m *MockAssessmentStore) SaveLevers(ctx context.Context, planID string, levers []schema.Lever) error {
	args := m.Called(ctx, planID, levers)
	return args.Error(0)
}

// SetLeverState implements the AssessmentStore interface.
func (m *MockAssessmentStore) SetLeverState(ctx context.Context, planID, leverID string, blockedAt *time.Time, completed bool) error {
	args := m.Called(ctx, planID, leverID, blockedAt, completed)
	return args.Error(0)
}

// ListLevers implements the AssessmentStore interface.
func (m *MockAssessmentStore) ListLevers(ctx context.Context) ([]schema.LeverRecord, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]schema.LeverRecord)
	return records, args.Error(1)
}

// GetStatus implements the AssessmentStore interface.
func (m *MockAssessmentStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the AssessmentStore interface.
func (m *MockAssessmentStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockPlanLocker is a mock implementation of PlanLocker for testing.
type MockPlanLocker struct {
	mock.Mock
}

var _ contract.PlanLocker = &MockPlanLocker{} // Compile-time check

// Acquire implements the PlanLocker interface.
func (m *MockPlanLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	args := m.Called(ctx, key, ttl)
	release, _ := args.Get(0).(func())
	return release, args.Error(1)
}
