// File: cmd/check.go
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/boxlayout/internal/observability"
	"github.com/xkilldash9x/boxlayout/internal/scene"
)

// errSnapshotMismatch is returned when a scene no longer lays out as recorded.
var errSnapshotMismatch = errors.New("layout differs from the expected snapshot")

// newCheckCmd creates the `check` command.
func newCheckCmd() *cobra.Command {
	opts := scene.DefaultCompareOptions()
	checkCmd := &cobra.Command{
		Use:   "check <scene> <expected.json>",
		Short: "Lays out a scene and compares it with a recorded JSON snapshot",
		Long: `Lays out a scene and compares the geometry with a snapshot previously written
by "layout --format json". Positions are compared the way the snapshot was
recorded, so record with --absolute to check with --absolute.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("failed to open snapshot: %w", err)
			}
			defer f.Close()
			expected, err := scene.ReadJSON(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[1], err)
			}

			flags := cmd.Flags()
			run := layoutRun{
				cfg:              cfg,
				path:             args[0],
				viewportFromFlag: flags.Changed("width") || flags.Changed("height"),
				logger:           observability.GetLogger(),
			}
			actual, err := run.snapshot(cmd.Context())
			if err != nil {
				return err
			}

			result := scene.Compare(expected, actual, opts)
			out := cmd.OutOrStdout()
			if result.Equivalent {
				fmt.Fprintf(out, "ok: %s matches %s\n", args[0], args[1])
				return nil
			}
			fmt.Fprintf(out, "%d box(es) differ (-expected +actual):\n%s", result.Mismatches, result.Diff)
			return errSnapshotMismatch
		},
	}
	checkCmd.Flags().Float64("width", 0, "viewport width in px")
	checkCmd.Flags().Float64("height", 0, "viewport height in px")
	checkCmd.Flags().Bool("absolute", false, "compare positions in viewport coordinates")
	checkCmd.Flags().Float64Var(&opts.Tolerance, "tolerance", opts.Tolerance, "largest difference in px treated as equal")
	checkCmd.Flags().BoolVar(&opts.IgnoreBaselines, "ignore-baselines", false, "skip baseline comparison")
	checkCmd.Flags().BoolVar(&opts.IgnoreIDs, "ignore-ids", false, "match boxes by tree position only")
	return checkCmd
}
