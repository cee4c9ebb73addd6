package cmd

import (
	"github.com/huangsam/maturity/core"
	"github.com/huangsam/maturity/internal/contract"
	"github.com/spf13/cobra"
)

// scoreCmd scores one answer set against a rubric.
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score an answer set against a maturity rubric.",
	Long: `Turn questionnaire answers into a maturity score on the 1-5 scale.

The base score selects one of eight rubric brackets (1.0 to 4.5). Every answer
is scored through the rules of that bracket and the weighted mean is rounded
to the nearest 0.5. Answers without a rule, with the wrong shape or with an
unknown option are reported as issues and contribute nothing.

The score is recorded in the configured store so progress can be tracked.

Examples:
  # Score a questionnaire for a subject
  maturity score --rubric rubric.yaml --answers answers.json --base 3.2 --subject acme

  # Show every ignored answer
  maturity score --rubric rubric.yaml --answers answers.yaml --base 2.0 --verbose

  # Export the result as JSON
  maturity score --rubric rubric.yaml --answers answers.json --base 3.2 --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScore(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot score answers", err)
		}
	},
}

// bracketsCmd shows the bracket ladder.
var bracketsCmd = &cobra.Command{
	Use:   "brackets",
	Short: "Show the score brackets and the one a base score selects.",
	Long: `Print the eight score brackets with their lower bounds and mark the bracket
selected by --base. Boundary values belong to the higher bracket.

With --rubric, each bracket also shows how many rules it defines and their total weight.

Examples:
  maturity brackets --base 3.2
  maturity brackets --base 2.5 --rubric rubric.yaml`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBrackets(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot show brackets", err)
		}
	},
}

// historyCmd shows how the recorded score of a subject moved.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the recorded scores of a subject over time.",
	Long: `Print every score recorded for --subject up to --now, oldest first,
with the change from the previous score.

Examples:
  # Full trajectory of a subject
  maturity history --subject acme

  # Last five scores as CSV
  maturity history --subject acme --limit 5 --output csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistory(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot show score history", err)
		}
	},
}
