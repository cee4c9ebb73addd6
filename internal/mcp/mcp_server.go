// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"
	"fmt"

	"github.com/huangsam/maturity/internal/contract"
	"github.com/huangsam/maturity/internal/rubric"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ServerVersion is reported to MCP clients during initialization.
const ServerVersion = "1.0.0"

// NewMCPServer initializes and configures the Maturity MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) (*server.MCPServer, error) {
	cache, err := rubric.NewCache(rubric.DefaultCacheSize)
	if err != nil {
		return nil, err
	}

	s := server.NewMCPServer(
		"Maturity Assessment Server",
		ServerVersion,
		server.WithToolCapabilities(false),
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
		rubrics: cache,
	}

	// --- 1. Tool: compute_score ---
	s.AddTool(mcp.NewTool("compute_score",
		mcp.WithDescription("Score an answer set against a maturity rubric. The base score selects the rubric bracket."),
		mcp.WithString("rubric_path", mcp.Description("Path to the rubric YAML file."), mcp.Required()),
		mcp.WithObject("answers", mcp.Description("Answers keyed by question. Values are option tokens, lists of tokens or free text."), mcp.Required()),
		mcp.WithNumber("base_score", mcp.Description("Base maturity score on the 1-5 scale."), mcp.Required()),
		mcp.WithString("subject", mcp.Description("Subject the answers describe (defaults to the configured subject).")),
	), h.handleComputeScore)

	// --- 2. Tool: replan_plan ---
	s.AddTool(mcp.NewTool("replan_plan",
		mcp.WithDescription("Re-order and reschedule the active growth plan of a subject."),
		mcp.WithString("subject", mcp.Description("Subject whose active plan is replanned.")),
		mcp.WithString("now", mcp.Description("Reference instant (RFC3339, YYYY-MM-DD or 'N days ago'). Defaults to the current time.")),
		mcp.WithBoolean("dry_run", mcp.Description("Return the replanned levers without saving them.")),
	), h.handleReplanPlan)

	// --- 3. Tool: show_plan ---
	s.AddTool(mcp.NewTool("show_plan",
		mcp.WithDescription("Return the active growth plan of a subject without changing it."),
		mcp.WithString("subject", mcp.Description("Subject whose active plan is returned.")),
	), h.handleShowPlan)

	// --- 4. Tool: list_brackets ---
	s.AddTool(mcp.NewTool("list_brackets",
		mcp.WithDescription("List the score brackets and the one selected by a base score."),
		mcp.WithNumber("base_score", mcp.Description("Base maturity score on the 1-5 scale."), mcp.Required()),
		mcp.WithString("rubric_path", mcp.Description("Optional rubric used to count rules per bracket.")),
	), h.handleListBrackets)

	// --- 5. Tool: score_history ---
	s.AddTool(mcp.NewTool("score_history",
		mcp.WithDescription("Return the recorded scores of a subject, oldest first, with the change between consecutive scores."),
		mcp.WithString("subject", mcp.Description("Subject whose scores are returned.")),
		mcp.WithNumber("limit", mcp.Description("Keep only the newest N scores (0 = all).")),
	), h.handleScoreHistory)

	return s, nil
}

// StartMCPServer starts the Maturity MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s, err := NewMCPServer(baseCfg, mgr)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	return server.ServeStdio(s)
}
