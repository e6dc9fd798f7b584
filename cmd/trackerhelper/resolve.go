package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/llehouerou/trackerhelper/internal/dedupe"
	"github.com/llehouerou/trackerhelper/internal/errmsg"
	"github.com/llehouerou/trackerhelper/internal/library"
	"github.com/llehouerou/trackerhelper/internal/plan"
	"github.com/llehouerou/trackerhelper/internal/report"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <fingerprints.tsv>",
	Short: "Re-run resolution from a saved fingerprint table",
	Long: `Read a discog_audiofp.tsv written by a previous dedupe run and redo the
resolution without fingerprinting again. Reports and a fresh plan are written
to the output directory; the table itself is left untouched.`,
	Args: exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dc := cfg.GetDedupeConfig()
		outDir := dc.OutDir
		if cmd.Flags().Changed("out-dir") {
			outDir, _ = cmd.Flags().GetString("out-dir")
		}
		return runResolve(args[0], outDir, dc.Collections, quiet, cmd.OutOrStdout())
	},
}

func init() {
	resolveCmd.Flags().String("out-dir", "", "Where to write reports (default: _dedupe_reports)")
	dedupeCmd.AddCommand(resolveCmd)
}

func runResolve(tablePath, outDir string, collections []string, quiet bool, stdout io.Writer) error {
	f, err := os.Open(tablePath)
	if err != nil {
		return fail(errmsg.OpReadTable, err)
	}
	rows, err := report.ReadFingerprintTSV(f)
	f.Close()
	if err != nil {
		return fail(errmsg.OpReadTable, fmt.Errorf("%s: %w", tablePath, err))
	}
	if len(rows) == 0 {
		return fail(errmsg.OpReadTable, errEmptyTable)
	}

	res := dedupe.Resolve(dedupe.BuildCatalog(rows, library.ReleaseResolver{Collections: collections}))
	p := plan.FromResult(res, plan.Meta{})

	files, err := report.WriteAll(outDir, nil, res, p)
	if err != nil {
		return fail(errmsg.OpReportWrite, err)
	}
	if !quiet {
		printResolution(stdout, outDir, files, res)
	}
	return nil
}
