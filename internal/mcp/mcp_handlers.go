package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/huangsam/maturity/core"
	"github.com/huangsam/maturity/internal/contract"
	"github.com/huangsam/maturity/internal/rubric"
	"github.com/huangsam/maturity/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
	rubrics *rubric.Cache
}

// configFor clones the base config and applies the optional subject argument.
func (h *toolHandler) configFor(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if s := strings.TrimSpace(request.GetString("subject", "")); s != "" {
		if strings.ContainsAny(s, " \t\n") {
			return nil, fmt.Errorf("subject '%s' cannot contain whitespace", s)
		}
		cfg.SubjectID = s
	}
	return cfg, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func baseScoreArg(request mcp.CallToolRequest) (float64, error) {
	args := request.GetArguments()
	if _, ok := args["base_score"]; !ok {
		return 0, fmt.Errorf("base_score is required")
	}
	base := request.GetFloat("base_score", math.NaN())
	if math.IsNaN(base) || math.IsInf(base, 0) {
		return 0, fmt.Errorf("base_score must be a finite number")
	}
	return base, nil
}

func (h *toolHandler) handleComputeScore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	rubricPath := request.GetString("rubric_path", "")
	if rubricPath == "" {
		return mcp.NewToolResultError("rubric_path is required"), nil
	}
	if cfg.BaseScore, err = baseScoreArg(request); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rawAnswers, ok := request.GetArguments()["answers"].(map[string]any)
	if !ok {
		return mcp.NewToolResultError("answers must be an object keyed by question"), nil
	}
	answers, err := rubric.AnswersFromMap(rawAnswers)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid answers: %v", err)), nil
	}

	scoring, err := h.rubrics.Get(rubricPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot load rubric: %v", err)), nil
	}

	cfg.Now = time.Now().UTC()
	report, err := core.GetScoreResult(core.WithSuppressIssues(ctx), cfg, answers, scoring)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %v", err)), nil
	}
	report.RubricPath = rubricPath
	return jsonResult(report)
}

func (h *toolHandler) handleReplanPlan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	now, err := contract.ParseInstant(request.GetString("now", ""), time.Now().UTC())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid now: %v", err)), nil
	}
	cfg.Now = now
	cfg.DryRun = request.GetBool("dry_run", false)

	report, err := core.GetReplanResult(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("replan failed: %v", err)), nil
	}
	return jsonResult(report)
}

func (h *toolHandler) handleShowPlan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if h.mgr == nil || h.mgr.GetAssessmentStore() == nil {
		return mcp.NewToolResultError("assessment store is not initialized"), nil
	}

	plan, err := h.mgr.GetAssessmentStore().ActivePlan(ctx, cfg.SubjectID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot load plan: %v", err)), nil
	}
	return jsonResult(schema.PlanReport{
		PlanID:      plan.ID,
		SubjectID:   plan.SubjectID,
		PeriodStart: plan.PeriodStart,
		PeriodEnd:   plan.PeriodEnd,
		Now:         time.Now().UTC(),
		Levers:      schema.EnrichLevers(plan.Levers),
	})
}

func (h *toolHandler) handleListBrackets(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	base, err := baseScoreArg(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var scoring schema.ScoringConfig
	if p := request.GetString("rubric_path", ""); p != "" {
		if scoring, err = h.rubrics.Get(p); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("cannot load rubric: %v", err)), nil
		}
	}
	return jsonResult(core.BuildBracketRows(base, scoring))
}

func (h *toolHandler) handleScoreHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	limit := request.GetFloat("limit", 0)
	if limit < 0 || limit != math.Trunc(limit) {
		return mcp.NewToolResultError("limit must be a non-negative integer"), nil
	}
	cfg.Limit = int(limit)
	cfg.Now = time.Time{}

	report, err := core.GetHistoryResult(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot load history: %v", err)), nil
	}
	return jsonResult(report)
}
