// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"errors"
	"time"

	"github.com/huangsam/maturity/schema"
)

// Sentinel errors shared across the store and core layers.
var (
	// ErrNoActivePlan is returned when a subject has no active growth plan.
	ErrNoActivePlan = errors.New("no active plan")

	// ErrLeverNotFound is returned when a lever id does not exist.
	ErrLeverNotFound = errors.New("lever not found")

	// ErrLockHeld is returned when another run already holds the lock for a key.
	ErrLockHeld = errors.New("lock is held by another run")
)

// StoreManager defines the interface for managing stores and run locks.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetAssessmentStore() AssessmentStore
	GetLocker() PlanLocker
}

// AssessmentStore defines the interface for persisting scores and growth plans.
type AssessmentStore interface {
	// RecordScore stores a computed score and returns its unique ID
	RecordScore(ctx context.Context, record schema.ScoreRecord) (int64, error)

	// LatestScore returns the most recent score for a subject
	LatestScore(ctx context.Context, subjectID string) (schema.ScoreRecord, error)

	// ListScores returns every stored score, oldest first
	ListScores(ctx context.Context) ([]schema.ScoreRecord, error)

	// CreatePlan stores a plan together with its levers in one transaction
	CreatePlan(ctx context.Context, plan schema.GrowthPlan) error

	// ActivePlan returns the most recently created active plan of a subject with its levers
	ActivePlan(ctx context.Context, subjectID string) (schema.GrowthPlan, error)

	// SaveLevers persists priority, due date and risk reason of every lever in one transaction
	SaveLevers(ctx context.Context, planID string, levers []schema.Lever) error

	// SetLeverState updates the blocked instant and completion flag of one lever of a plan
	SetLeverState(ctx context.Context, planID, leverID string, blockedAt *time.Time, completed bool) error

	// ListLevers returns every stored lever joined with its plan
	ListLevers(ctx context.Context) ([]schema.LeverRecord, error)

	// GetStatus returns status information about the store
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection
	Close() error
}

// PlanLocker serializes runs that touch the same plan or subject.
type PlanLocker interface {
	// Acquire takes the lock for key or returns ErrLockHeld. The returned
	// function releases it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}
