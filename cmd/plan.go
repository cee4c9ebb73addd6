package cmd

import (
	"github.com/huangsam/maturity/core"
	"github.com/huangsam/maturity/internal/contract"
	"github.com/spf13/cobra"
)

// planCmd groups growth plan operations.
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage growth plans and their levers",
	Long: `Manage the growth plan of a subject.

A plan is a scheduling window with levers (initiatives). Replanning orders the
levers by how long they have been blocked and then by impact/effort, assigns
dense priorities and keeps every due date inside the window. A lever blocked
for more than a week is pushed back three days, and the longest blocked one is
flagged for replacement.

Subcommands:
  import   - Store a plan file as the subject's active plan
  show     - Print the active plan
  replan   - Re-order and reschedule the active plan
  block    - Mark a lever as blocked now
  unblock  - Clear the blocked mark of a lever
  complete - Mark a lever as done

Examples:
  maturity plan import --plan-file q1.yaml --subject acme
  maturity plan replan --subject acme --now 2025-01-20
  maturity plan block 6f1c... --subject acme`,
}

// planImportCmd imports a plan file.
var planImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Store a plan file as the subject's active plan",
	Long: `Read a plan from YAML or JSON and store it as the active plan of the subject.
The previous active plan of the subject is archived.

Plan file format:
  subject_id: acme        # optional, defaults to --subject
  period_start: 2025-01-01
  period_end: 2025-03-31
  levers:
    - title: Hire sales lead
      impact: 5           # optional, defaults to 3
      effort: 2           # optional, defaults to 3
      due_date: 2025-02-15
      priority: 1         # optional, file order otherwise

Every due date must lie inside the plan window.

Examples:
  maturity plan import --plan-file q1.yaml`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePlanImport(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot import plan", err)
		}
	},
}

// planShowCmd prints the active plan.
var planShowCmd = &cobra.Command{
	Use:     "show",
	Short:   "Print the active plan of a subject",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePlanShow(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot show plan", err)
		}
	},
}

// planReplanCmd replans the active plan.
var planReplanCmd = &cobra.Command{
	Use:   "replan",
	Short: "Re-order and reschedule the active plan",
	Long: `Replan the active plan of the subject at --now (default: current time) and save it.

Runs on the same plan are serialized with a lock. Use --lock-backend redis to
share the lock between machines.

Examples:
  # Replan as of today
  maturity plan replan --subject acme

  # Preview a replan at a past instant without saving
  maturity plan replan --now "2 weeks ago" --dry-run`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReplan(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot replan", err)
		}
	},
}

// leverCommand builds a subcommand that applies action to one lever.
func leverCommand(use, short string, action core.LeverAction) *cobra.Command {
	return &cobra.Command{
		Use:     use + " <lever-id>",
		Short:   short,
		Args:    cobra.ExactArgs(1),
		PreRunE: sharedSetupWrapper,
		Run: func(_ *cobra.Command, args []string) {
			if err := core.ExecuteLeverAction(rootCtx, cfg, storeManager, args[0], action); err != nil {
				contract.LogFatal("Cannot "+string(action)+" lever", err)
			}
		},
	}
}

var (
	planBlockCmd    = leverCommand("block", "Mark a lever as blocked at --now", core.BlockLever)
	planUnblockCmd  = leverCommand("unblock", "Clear the blocked mark of a lever", core.UnblockLever)
	planCompleteCmd = leverCommand("complete", "Mark a lever as done", core.CompleteLever)
)
