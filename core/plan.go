package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/maturity/core/algo"
	"github.com/huangsam/maturity/internal/contract"
	"github.com/huangsam/maturity/internal/outwriter"
	"github.com/huangsam/maturity/schema"
	"gopkg.in/yaml.v3"
)

// planFile is the on-disk shape of a plan to import. Dates are strings so the
// same file may be written as YAML or JSON and use any form ParseInstant accepts.
type planFile struct {
	SubjectID   string      `yaml:"subject_id"`
	PeriodStart string      `yaml:"period_start"`
	PeriodEnd   string      `yaml:"period_end"`
	Levers      []leverFile `yaml:"levers"`
}

type leverFile struct {
	ID        string  `yaml:"id"`
	Title     string  `yaml:"title"`
	Priority  int     `yaml:"priority"`
	Impact    float64 `yaml:"impact"`
	Effort    float64 `yaml:"effort"`
	DueDate   string  `yaml:"due_date"`
	BlockedAt string  `yaml:"blocked_at"`
	Completed bool    `yaml:"completed"`
	Risk      string  `yaml:"risk_reason"`
}

// LeverAction is a state change applied to a single lever.
type LeverAction string

// All lever actions supported.
const (
	BlockLever    LeverAction = "block"
	UnblockLever  LeverAction = "unblock"
	CompleteLever LeverAction = "complete"
)

// ExecutePlanImport reads the plan file, validates it and stores it as the
// subject's active plan. Earlier active plans of the subject are archived.
func ExecutePlanImport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	if cfg.PlanPath == "" {
		return errors.New("--plan-file is required")
	}
	store, err := requireStore(mgr)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(cfg.PlanPath)
	if err != nil {
		return fmt.Errorf("read plan: %w", err)
	}
	plan, err := ParsePlan(data, cfg.SubjectID, cfg.Now)
	if err != nil {
		return err
	}

	release, err := acquireLock(ctx, mgr, importLockPrefix+plan.SubjectID, cfg.LockTTL)
	if err != nil {
		return err
	}
	defer release()

	if err := store.CreatePlan(ctx, plan); err != nil {
		return fmt.Errorf("failed to store plan: %w", err)
	}

	cfg = cfg.Clone()
	cfg.SubjectID = plan.SubjectID
	return outwriter.NewOutWriter().WritePlan(planReport(plan, cfg.Now, false), cfg)
}

// ParsePlan decodes a YAML or JSON plan and turns it into an active growth plan
// with fresh ids. defaultSubject is used when the file names no subject.
func ParsePlan(data []byte, defaultSubject string, now time.Time) (schema.GrowthPlan, error) {
	var raw planFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return schema.GrowthPlan{}, fmt.Errorf("malformed plan: %w", err)
	}

	plan := schema.GrowthPlan{
		ID:        uuid.NewString(),
		SubjectID: strings.TrimSpace(raw.SubjectID),
		Status:    schema.ActivePlan,
		CreatedAt: now,
	}
	if plan.SubjectID == "" {
		plan.SubjectID = defaultSubject
	}
	if plan.SubjectID == "" {
		return schema.GrowthPlan{}, errors.New("plan has no subject")
	}

	var err error
	if raw.PeriodStart == "" || raw.PeriodEnd == "" {
		return schema.GrowthPlan{}, errors.New("plan needs period_start and period_end")
	}
	if plan.PeriodStart, err = contract.ParseInstant(raw.PeriodStart, now); err != nil {
		return schema.GrowthPlan{}, fmt.Errorf("period_start: %w", err)
	}
	if plan.PeriodEnd, err = contract.ParseInstant(raw.PeriodEnd, now); err != nil {
		return schema.GrowthPlan{}, fmt.Errorf("period_end: %w", err)
	}
	if !plan.PeriodEnd.After(plan.PeriodStart) {
		return schema.GrowthPlan{}, errors.New("period_end must be after period_start")
	}

	seen := make(map[string]struct{}, len(raw.Levers))
	for i, rl := range raw.Levers {
		lever, err := parseLever(rl, plan, now)
		if err != nil {
			return schema.GrowthPlan{}, fmt.Errorf("lever %d: %w", i+1, err)
		}
		if _, dup := seen[lever.ID]; dup {
			return schema.GrowthPlan{}, fmt.Errorf("lever %d: duplicate id %q", i+1, lever.ID)
		}
		seen[lever.ID] = struct{}{}
		plan.Levers = append(plan.Levers, lever)
	}

	normalizePriorities(plan.Levers)
	return plan, nil
}

func parseLever(rl leverFile, plan schema.GrowthPlan, now time.Time) (schema.Lever, error) {
	lever := schema.Lever{
		ID:        strings.TrimSpace(rl.ID),
		PlanID:    plan.ID,
		Title:     strings.TrimSpace(rl.Title),
		Priority:  rl.Priority,
		Impact:    rl.Impact,
		Effort:    rl.Effort,
		Completed: rl.Completed,
		Risk:      schema.ParseRiskReason(rl.Risk),
	}
	if lever.ID == "" {
		lever.ID = uuid.NewString()
	}
	if lever.Title == "" {
		return schema.Lever{}, errors.New("title is required")
	}
	if lever.Impact < 0 || lever.Effort < 0 {
		return schema.Lever{}, fmt.Errorf("%q: impact and effort cannot be negative", lever.Title)
	}

	if rl.DueDate != "" {
		due, err := contract.ParseInstant(rl.DueDate, now)
		if err != nil {
			return schema.Lever{}, fmt.Errorf("%q due_date: %w", lever.Title, err)
		}
		if !plan.Contains(due) {
			return schema.Lever{}, fmt.Errorf("%q due_date %s lies outside the plan window", lever.Title, due.Format(contract.DateFormat))
		}
		lever.DueDate = &due
	}
	if rl.BlockedAt != "" {
		blocked, err := contract.ParseInstant(rl.BlockedAt, now)
		if err != nil {
			return schema.Lever{}, fmt.Errorf("%q blocked_at: %w", lever.Title, err)
		}
		lever.BlockedAt = &blocked
	}
	return lever, nil
}

// normalizePriorities orders levers by their given priority, unset ones last in
// file order, and renumbers them densely from 1.
func normalizePriorities(levers []schema.Lever) {
	sort.SliceStable(levers, func(i, j int) bool {
		pi, pj := levers[i].Priority, levers[j].Priority
		if (pi > 0) != (pj > 0) {
			return pi > 0
		}
		return pi < pj
	})
	for i := range levers {
		levers[i].Priority = i + 1
	}
}

// ExecutePlanShow prints the subject's active plan without changing it.
func ExecutePlanShow(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	store, err := requireStore(mgr)
	if err != nil {
		return err
	}
	plan, err := store.ActivePlan(ctx, cfg.SubjectID)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WritePlan(planReport(plan, cfg.Now, false), cfg)
}

// ExecuteReplan replans the subject's active plan at cfg.Now and prints it.
func ExecuteReplan(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	report, err := GetReplanResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WritePlan(report, cfg)
}

// GetReplanResult re-orders and reschedules the subject's active plan while
// holding the plan lock. The result is saved unless cfg.DryRun is set.
func GetReplanResult(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.PlanReport, error) {
	store, err := requireStore(mgr)
	if err != nil {
		return schema.PlanReport{}, err
	}

	plan, release, err := lockActivePlan(ctx, cfg, mgr, store)
	if err != nil {
		return schema.PlanReport{}, err
	}
	defer release()

	plan.Levers = algo.Replan(plan.Levers, plan.PeriodStart, plan.PeriodEnd, cfg.Now)

	if !cfg.DryRun {
		if err := store.SaveLevers(ctx, plan.ID, plan.Levers); err != nil {
			return schema.PlanReport{}, fmt.Errorf("failed to save replanned levers: %w", err)
		}
	}
	return planReport(plan, cfg.Now, true), nil
}

// ExecuteLeverAction blocks, unblocks or completes one lever of the subject's
// active plan. Blocking stamps the lever with cfg.Now unless it is already blocked.
func ExecuteLeverAction(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, leverID string, action LeverAction) error {
	store, err := requireStore(mgr)
	if err != nil {
		return err
	}
	plan, release, err := lockActivePlan(ctx, cfg, mgr, store)
	if err != nil {
		return err
	}
	defer release()

	var lever *schema.Lever
	for i := range plan.Levers {
		if plan.Levers[i].ID == leverID {
			lever = &plan.Levers[i]
			break
		}
	}
	if lever == nil {
		return fmt.Errorf("%w: %s in plan %s", contract.ErrLeverNotFound, leverID, plan.ID)
	}

	var (
		blockedAt *time.Time
		completed bool
	)
	switch action {
	case BlockLever:
		if lever.Completed {
			return fmt.Errorf("lever %s is already completed", leverID)
		}
		// Replan ages blocked levers from the first block
		if lever.BlockedAt != nil {
			blockedAt = lever.BlockedAt
		} else {
			now := cfg.Now
			blockedAt = &now
		}
	case UnblockLever:
		completed = lever.Completed
	case CompleteLever:
		completed = true
	default:
		return fmt.Errorf("unknown lever action %q", action)
	}

	if err := store.SetLeverState(ctx, plan.ID, leverID, blockedAt, completed); err != nil {
		return err
	}
	fmt.Printf("Lever %s (%s): %s\n", leverID, lever.Title, actionVerb(action))
	return nil
}

// lockActivePlan takes the lock of the subject's active plan and returns the
// plan as read under the lock. Callers must invoke release when done.
func lockActivePlan(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, store contract.AssessmentStore) (schema.GrowthPlan, func(), error) {
	plan, err := store.ActivePlan(ctx, cfg.SubjectID)
	if err != nil {
		return schema.GrowthPlan{}, nil, err
	}

	release, err := acquireLock(ctx, mgr, planLockPrefix+plan.ID, cfg.LockTTL)
	if err != nil {
		return schema.GrowthPlan{}, nil, err
	}

	// Another run may have replaced the plan before the lock was taken.
	current, err := store.ActivePlan(ctx, cfg.SubjectID)
	if err != nil {
		release()
		return schema.GrowthPlan{}, nil, err
	}
	if current.ID != plan.ID {
		release()
		return schema.GrowthPlan{}, nil, fmt.Errorf("active plan of %s changed from %s to %s while waiting for its lock", cfg.SubjectID, plan.ID, current.ID)
	}
	return current, release, nil
}

func actionVerb(action LeverAction) string {
	switch action {
	case BlockLever:
		return "blocked"
	case UnblockLever:
		return "unblocked"
	default:
		return "completed"
	}
}

func planReport(plan schema.GrowthPlan, now time.Time, replanned bool) schema.PlanReport {
	return schema.PlanReport{
		PlanID:      plan.ID,
		SubjectID:   plan.SubjectID,
		PeriodStart: plan.PeriodStart,
		PeriodEnd:   plan.PeriodEnd,
		Now:         now,
		Replanned:   replanned,
		Levers:      schema.EnrichLevers(plan.Levers),
	}
}
