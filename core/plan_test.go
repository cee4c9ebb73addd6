package core

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/maturity/internal/contract"
	"github.com/huangsam/maturity/internal/iocache"
	"github.com/huangsam/maturity/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const samplePlanYAML = `
subject_id: acme
period_start: 2025-01-01
period_end: 2025-03-31
levers:
  - id: hire
    title: Hire sales lead
    impact: 5
    effort: 2
    due_date: 2025-02-15
  - title: Document onboarding
    priority: 1
  - id: vendor
    title: Vendor contract
    priority: 2
    blocked_at: 2025-01-05
    risk_reason: waiting on legal
`

func date(m time.Month, d int) time.Time {
	return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
}

func timePtr(t time.Time) *time.Time { return &t }

func TestParsePlan(t *testing.T) {
	plan, err := ParsePlan([]byte(samplePlanYAML), "default", testNow)
	require.NoError(t, err)

	assert.NotEmpty(t, plan.ID)
	assert.Equal(t, "acme", plan.SubjectID)
	assert.Equal(t, schema.ActivePlan, plan.Status)
	assert.True(t, date(time.January, 1).Equal(plan.PeriodStart))
	assert.True(t, date(time.March, 31).Equal(plan.PeriodEnd))
	assert.Equal(t, testNow, plan.CreatedAt)
	require.Len(t, plan.Levers, 3)

	// Explicit priorities first, unset ones after in file order
	assert.Equal(t, "Document onboarding", plan.Levers[0].Title)
	assert.NotEmpty(t, plan.Levers[0].ID)
	assert.Equal(t, "vendor", plan.Levers[1].ID)
	assert.Equal(t, "hire", plan.Levers[2].ID)
	for i, l := range plan.Levers {
		assert.Equal(t, i+1, l.Priority)
		assert.Equal(t, plan.ID, l.PlanID)
	}

	require.NotNil(t, plan.Levers[2].DueDate)
	assert.True(t, date(time.February, 15).Equal(*plan.Levers[2].DueDate))
	require.NotNil(t, plan.Levers[1].BlockedAt)
	assert.Equal(t, "waiting on legal", plan.Levers[1].Risk.Note)
}

func TestParsePlanJSON(t *testing.T) {
	data := `{"period_start": "2025-01-01T00:00:00Z", "period_end": "2025-02-01", "levers": [{"title": "A"}]}`
	plan, err := ParsePlan([]byte(data), "fallback", testNow)
	require.NoError(t, err)
	assert.Equal(t, "fallback", plan.SubjectID)
	require.Len(t, plan.Levers, 1)
	assert.Nil(t, plan.Levers[0].DueDate)
}

func TestParsePlanErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"malformed", "levers: [", "malformed plan"},
		{"missing window", "levers: []", "period_start and period_end"},
		{"inverted window", "period_start: 2025-02-01\nperiod_end: 2025-01-01", "must be after"},
		{"bad date", "period_start: someday\nperiod_end: 2025-01-01", "period_start"},
		{"missing title", "period_start: 2025-01-01\nperiod_end: 2025-02-01\nlevers:\n  - impact: 1", "title is required"},
		{"negative impact", "period_start: 2025-01-01\nperiod_end: 2025-02-01\nlevers:\n  - title: A\n    impact: -1", "cannot be negative"},
		{"due outside window", "period_start: 2025-01-01\nperiod_end: 2025-02-01\nlevers:\n  - title: A\n    due_date: 2025-03-01", "outside the plan window"},
		{"duplicate id", "period_start: 2025-01-01\nperiod_end: 2025-02-01\nlevers:\n  - {id: x, title: A}\n  - {id: x, title: B}", "duplicate id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePlan([]byte(tt.data), "acme", testNow)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestExecutePlanImport(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	planPath := filepath.Join(dir, "plan.yaml")
	require.NoError(t, os.WriteFile(planPath, []byte(samplePlanYAML), 0o600))

	cfg := &contract.Config{
		Precision:  1,
		Output:     schema.JSONOut,
		OutputFile: filepath.Join(dir, "plan.json"),
		SubjectID:  "default",
		Now:        testNow,
		PlanPath:   planPath,
		LockTTL:    time.Second,
	}

	mockStore := &iocache.MockAssessmentStore{}
	mockLocker := &iocache.MockPlanLocker{}
	mockMgr := &iocache.MockStoreManager{}
	mockMgr.On("GetAssessmentStore").Return(mockStore)
	mockMgr.On("GetLocker").Return(mockLocker)
	mockLocker.On("Acquire", ctx, "import:acme", time.Second).Return(func() {}, nil)
	mockStore.On("CreatePlan", ctx, mock.MatchedBy(func(p schema.GrowthPlan) bool {
		return p.SubjectID == "acme" && len(p.Levers) == 3 && p.Status == schema.ActivePlan
	})).Return(nil)

	require.NoError(t, ExecutePlanImport(ctx, cfg, mockMgr))
	assert.Equal(t, "default", cfg.SubjectID, "caller config is not modified")

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var report schema.PlanReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "acme", report.SubjectID)
	assert.False(t, report.Replanned)
	assert.Len(t, report.Levers, 3)

	mockStore.AssertExpectations(t)
	mockLocker.AssertExpectations(t)
}

func TestExecutePlanImport_SameFileTwice(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	planPath := filepath.Join(dir, "plan.yaml")
	require.NoError(t, os.WriteFile(planPath, []byte(samplePlanYAML), 0o600))

	store, err := iocache.NewAssessmentStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	mockMgr := &iocache.MockStoreManager{}
	mockMgr.On("GetAssessmentStore").Return(store)
	mockMgr.On("GetLocker").Return(nil)

	cfg := &contract.Config{
		Output:     schema.JSONOut,
		OutputFile: filepath.Join(dir, "plan.json"),
		SubjectID:  "acme",
		Now:        testNow,
		PlanPath:   planPath,
	}
	require.NoError(t, ExecutePlanImport(ctx, cfg, mockMgr))
	first, err := store.ActivePlan(ctx, "acme")
	require.NoError(t, err)

	cfg.Now = testNow.Add(time.Hour)
	require.NoError(t, ExecutePlanImport(ctx, cfg, mockMgr))
	second, err := store.ActivePlan(ctx, "acme")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	require.Len(t, second.Levers, 3)

	// Lever ids from the file are reused by the new plan
	require.NoError(t, ExecuteLeverAction(ctx, cfg, mockMgr, "hire", CompleteLever))
	levers, err := store.ListLevers(ctx)
	require.NoError(t, err)
	for _, rec := range levers {
		if rec.ID == "hire" {
			assert.Equal(t, rec.PlanID == second.ID, rec.Completed, "plan %s", rec.PlanID)
		}
	}
}

func TestExecutePlanImport_Errors(t *testing.T) {
	ctx := context.Background()
	cfg := &contract.Config{SubjectID: "acme", Now: testNow}

	assert.EqualError(t, ExecutePlanImport(ctx, cfg, nil), "--plan-file is required")

	cfg.PlanPath = filepath.Join(t.TempDir(), "missing.yaml")
	mockMgr := &iocache.MockStoreManager{}
	mockMgr.On("GetAssessmentStore").Return(nil)
	assert.ErrorIs(t, ExecutePlanImport(ctx, cfg, mockMgr), errNoStore)
}

// replanFixture is an active plan whose levers are out of order at testNow.
func replanFixture() schema.GrowthPlan {
	return schema.GrowthPlan{
		ID:          "p1",
		SubjectID:   "acme",
		Status:      schema.ActivePlan,
		PeriodStart: date(time.January, 1),
		PeriodEnd:   date(time.January, 31),
		Levers: []schema.Lever{
			{ID: "l1", PlanID: "p1", Title: "Hire", Priority: 1, Impact: 5, Effort: 2, DueDate: timePtr(date(time.January, 25))},
			{ID: "l2", PlanID: "p1", Title: "Vendor", Priority: 2, Impact: 1, Effort: 1, BlockedAt: timePtr(date(time.January, 10)), DueDate: timePtr(date(time.January, 30))},
			{ID: "l3", PlanID: "p1", Title: "Docs", Priority: 3, Impact: 4, Effort: 1},
		},
	}
}

func TestGetReplanResult(t *testing.T) {
	ctx := context.Background()
	cfg := &contract.Config{SubjectID: "acme", Now: testNow, LockTTL: time.Second}
	fixture := replanFixture()

	mockStore := &iocache.MockAssessmentStore{}
	mockLocker := &iocache.MockPlanLocker{}
	mockMgr := &iocache.MockStoreManager{}
	mockMgr.On("GetAssessmentStore").Return(mockStore)
	mockMgr.On("GetLocker").Return(mockLocker)
	mockLocker.On("Acquire", ctx, "plan:p1", time.Second).Return(func() {}, nil)
	mockStore.On("ActivePlan", ctx, "acme").Return(fixture, nil).Twice()

	var saved []schema.Lever
	mockStore.On("SaveLevers", ctx, "p1", mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(2).([]schema.Lever)
	}).Return(nil)

	report, err := GetReplanResult(ctx, cfg, mockMgr)
	require.NoError(t, err)
	assert.True(t, report.Replanned)
	require.Len(t, report.Levers, 3)

	// Blocked lever first, then by ratio: Docs (4.0) before Hire (2.5)
	assert.Equal(t, []string{"l2", "l3", "l1"}, []string{report.Levers[0].ID, report.Levers[1].ID, report.Levers[2].ID})
	assert.Equal(t, 1, report.Levers[0].Priority)
	assert.True(t, report.Levers[0].Blocked)

	// Stale block pushes the due date back, clamped to the window
	require.NotNil(t, report.Levers[0].DueDate)
	assert.Equal(t, date(time.January, 31), *report.Levers[0].DueDate)
	assert.True(t, report.Levers[0].Risk.Has(schema.FlagConsiderReplacement))

	// Absent due date defaults to the period end
	require.NotNil(t, report.Levers[1].DueDate)
	assert.Equal(t, date(time.January, 31), *report.Levers[1].DueDate)

	require.Len(t, saved, 3)
	assert.Equal(t, "l2", saved[0].ID)

	// The stored fixture is untouched
	assert.Equal(t, "l1", fixture.Levers[0].ID)
	assert.True(t, fixture.Levers[1].Risk.IsEmpty())

	mockStore.AssertExpectations(t)
}

func TestGetReplanResult_DryRun(t *testing.T) {
	ctx := context.Background()
	cfg := &contract.Config{SubjectID: "acme", Now: testNow, DryRun: true}

	mockStore := &iocache.MockAssessmentStore{}
	mockMgr := &iocache.MockStoreManager{}
	mockMgr.On("GetAssessmentStore").Return(mockStore)
	mockMgr.On("GetLocker").Return(nil)
	mockStore.On("ActivePlan", ctx, "acme").Return(replanFixture(), nil)

	report, err := GetReplanResult(ctx, cfg, mockMgr)
	require.NoError(t, err)
	assert.Len(t, report.Levers, 3)
	mockStore.AssertNotCalled(t, "SaveLevers", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetReplanResult_NoActivePlan(t *testing.T) {
	ctx := context.Background()
	cfg := &contract.Config{SubjectID: "acme", Now: testNow}

	mockStore := &iocache.MockAssessmentStore{}
	mockMgr := &iocache.MockStoreManager{}
	mockMgr.On("GetAssessmentStore").Return(mockStore)
	mockStore.On("ActivePlan", ctx, "acme").Return(schema.GrowthPlan{}, contract.ErrNoActivePlan)

	_, err := GetReplanResult(ctx, cfg, mockMgr)
	assert.ErrorIs(t, err, contract.ErrNoActivePlan)
}

func TestGetReplanResult_PlanChanged(t *testing.T) {
	ctx := context.Background()
	cfg := &contract.Config{SubjectID: "acme", Now: testNow}

	replaced := replanFixture()
	replaced.ID = "p2"

	mockStore := &iocache.MockAssessmentStore{}
	mockMgr := &iocache.MockStoreManager{}
	mockMgr.On("GetAssessmentStore").Return(mockStore)
	mockMgr.On("GetLocker").Return(nil)
	mockStore.On("ActivePlan", ctx, "acme").Return(replanFixture(), nil).Once()
	mockStore.On("ActivePlan", ctx, "acme").Return(replaced, nil).Once()

	_, err := GetReplanResult(ctx, cfg, mockMgr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "changed from p1 to p2")
}

func TestExecuteReplan_SaveFailure(t *testing.T) {
	ctx := context.Background()
	cfg := &contract.Config{SubjectID: "acme", Now: testNow}

	mockStore := &iocache.MockAssessmentStore{}
	mockMgr := &iocache.MockStoreManager{}
	mockMgr.On("GetAssessmentStore").Return(mockStore)
	mockMgr.On("GetLocker").Return(nil)
	mockStore.On("ActivePlan", ctx, "acme").Return(replanFixture(), nil)
	mockStore.On("SaveLevers", ctx, "p1", mock.Anything).Return(assert.AnError)

	err := ExecuteReplan(ctx, cfg, mockMgr)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestExecutePlanShow(t *testing.T) {
	ctx := context.Background()
	cfg := &contract.Config{
		Precision:  1,
		Output:     schema.CSVOut,
		OutputFile: filepath.Join(t.TempDir(), "plan.csv"),
		SubjectID:  "acme",
		Now:        testNow,
	}

	mockStore := &iocache.MockAssessmentStore{}
	mockMgr := &iocache.MockStoreManager{}
	mockMgr.On("GetAssessmentStore").Return(mockStore)
	mockStore.On("ActivePlan", ctx, "acme").Return(replanFixture(), nil)

	require.NoError(t, ExecutePlanShow(ctx, cfg, mockMgr))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "p1,acme,l1,1,Hire")
	mockStore.AssertNotCalled(t, "SaveLevers", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecuteLeverAction(t *testing.T) {
	ctx := context.Background()
	cfg := &contract.Config{SubjectID: "acme", Now: testNow, LockTTL: time.Second}

	tests := []struct {
		name      string
		leverID   string
		action    LeverAction
		blockedAt *time.Time
		completed bool
	}{
		{"block", "l1", BlockLever, &testNow, false},
		{"block again keeps first instant", "l2", BlockLever, timePtr(date(time.January, 10)), false},
		{"unblock", "l2", UnblockLever, nil, false},
		{"complete", "l2", CompleteLever, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := &iocache.MockAssessmentStore{}
			mockLocker := &iocache.MockPlanLocker{}
			mockMgr := &iocache.MockStoreManager{}
			mockMgr.On("GetAssessmentStore").Return(mockStore)
			mockMgr.On("GetLocker").Return(mockLocker)
			mockLocker.On("Acquire", ctx, "plan:p1", time.Second).Return(func() {}, nil)
			mockStore.On("ActivePlan", ctx, "acme").Return(replanFixture(), nil)
			mockStore.On("SetLeverState", ctx, "p1", tt.leverID, tt.blockedAt, tt.completed).Return(nil)

			require.NoError(t, ExecuteLeverAction(ctx, cfg, mockMgr, tt.leverID, tt.action))
			mockStore.AssertExpectations(t)
		})
	}
}

func TestExecuteLeverAction_Errors(t *testing.T) {
	ctx := context.Background()
	cfg := &contract.Config{SubjectID: "acme", Now: testNow}

	done := replanFixture()
	done.Levers[0].Completed = true

	mockStore := &iocache.MockAssessmentStore{}
	mockMgr := &iocache.MockStoreManager{}
	mockMgr.On("GetAssessmentStore").Return(mockStore)
	mockMgr.On("GetLocker").Return(nil)
	mockStore.On("ActivePlan", ctx, "acme").Return(done, nil)

	err := ExecuteLeverAction(ctx, cfg, mockMgr, "missing", BlockLever)
	assert.ErrorIs(t, err, contract.ErrLeverNotFound)

	err = ExecuteLeverAction(ctx, cfg, mockMgr, "l1", BlockLever)
	assert.ErrorContains(t, err, "already completed")

	err = ExecuteLeverAction(ctx, cfg, mockMgr, "l1", "pause")
	assert.ErrorContains(t, err, "unknown lever action")

	mockStore.AssertNotCalled(t, "SetLeverState", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExecuteLeverAction_ReadsStateUnderLock(t *testing.T) {
	ctx := context.Background()
	cfg := &contract.Config{SubjectID: "acme", Now: testNow, LockTTL: time.Second}

	done := replanFixture()
	done.Levers[0].Completed = true

	var locked bool
	mockStore := &iocache.MockAssessmentStore{}
	mockLocker := &iocache.MockPlanLocker{}
	mockMgr := &iocache.MockStoreManager{}
	mockMgr.On("GetAssessmentStore").Return(mockStore)
	mockMgr.On("GetLocker").Return(mockLocker)
	mockLocker.On("Acquire", ctx, "plan:p1", time.Second).Run(func(mock.Arguments) { locked = true }).Return(func() {}, nil)
	mockStore.On("ActivePlan", ctx, "acme").Return(replanFixture(), nil).Once()
	mockStore.On("ActivePlan", ctx, "acme").Run(func(mock.Arguments) { assert.True(t, locked) }).Return(done, nil).Once()

	// l1 was completed by another run while this one waited for the lock
	err := ExecuteLeverAction(ctx, cfg, mockMgr, "l1", BlockLever)
	assert.ErrorContains(t, err, "already completed")
	mockStore.AssertNotCalled(t, "SetLeverState", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockStore.AssertExpectations(t)
}

func TestExecuteLeverAction_PlanChanged(t *testing.T) {
	ctx := context.Background()
	cfg := &contract.Config{SubjectID: "acme", Now: testNow}

	replaced := replanFixture()
	replaced.ID = "p2"

	mockStore := &iocache.MockAssessmentStore{}
	mockMgr := &iocache.MockStoreManager{}
	mockMgr.On("GetAssessmentStore").Return(mockStore)
	mockMgr.On("GetLocker").Return(nil)
	mockStore.On("ActivePlan", ctx, "acme").Return(replanFixture(), nil).Once()
	mockStore.On("ActivePlan", ctx, "acme").Return(replaced, nil).Once()

	err := ExecuteLeverAction(ctx, cfg, mockMgr, "l1", CompleteLever)
	assert.ErrorContains(t, err, "changed from p1 to p2")
	mockStore.AssertNotCalled(t, "SetLeverState", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
