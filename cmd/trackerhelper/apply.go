package main

import (
	"github.com/spf13/cobra"

	"github.com/llehouerou/trackerhelper/internal/errmsg"
	"github.com/llehouerou/trackerhelper/internal/plan"
)

var applyCmd = &cobra.Command{
	Use:   "apply <plan.json>",
	Short: "Move or delete the releases listed in a plan",
	Long: `Apply a plan written by dedupe. Exactly one of --move-to or --delete is
required. Releases already gone from disk are skipped; a release that fails
does not stop the others.

Example:
  $ trackerhelper dedupe apply _dedupe_reports/discog_dedupe_plan.json --move-to _trash --dry-run`,
	Args: exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts plan.Options
		opts.MoveTo, _ = cmd.Flags().GetString("move-to")
		opts.Delete, _ = cmd.Flags().GetBool("delete")
		opts.DryRun, _ = cmd.Flags().GetBool("dry-run")
		if opts.MoveTo != "" && opts.Delete {
			return usage(plan.ErrConflictingModes)
		}
		if opts.MoveTo == "" && !opts.Delete {
			return usage(plan.ErrNoMode)
		}

		p, err := plan.Load(args[0])
		if err != nil {
			return fail(errmsg.OpPlanLoad, err)
		}
		return applyPlan(cmd.Context(), p, opts, quiet, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	applyCmd.Flags().String("move-to", "", "Move releases into this folder")
	applyCmd.Flags().Bool("delete", false, "Delete releases (dangerous)")
	applyCmd.Flags().Bool("dry-run", false, "Only report what would happen")
	dedupeCmd.AddCommand(applyCmd)
}
