package cmd

import (
	"github.com/huangsam/maturity/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the maturity MCP server",
	Long: `Launch an MCP server on stdio so AI agents can score answers, list brackets
and replan growth plans through standard tools.

Tools: compute_score, list_brackets, show_plan, replan_plan`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
