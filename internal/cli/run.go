package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// runCommand creates the run command for the full pipeline.
func (c *CLI) runCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)
	opts := codeOptions(DefaultConfig().Code)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build, simulate, and decode in one step",
		Long: `Build, simulate, and decode in one step.

Builds the syndrome-measurement circuit, samples the requested number of
shots, and decodes every shot into a detection graph. The graphs are
written as a JSON array; simulation and decode results are cached.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mergeCodeConfig(cmd, &opts, c.config().Code)
			opts.Refresh = refresh

			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			spinner := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Running distance-%d pipeline...", opts.Distance))
			spinner.Start()
			result, err := runner.Execute(cmd.Context(), opts)
			if err != nil {
				spinner.StopWithError("Pipeline failed")
				return err
			}
			spinner.Stop()

			if err := writeGraphs(result.Graphs, output); err != nil {
				return err
			}
			if output != "" {
				printSuccess("Decoded %d shots", len(result.Shots))
				printFile(output)
				printStats(len(result.Shots), result.NodeCount(), result.CacheInfo.ShotsHit && result.CacheInfo.DecodeHit)
				printDetail("build %s · simulate %s · decode %s",
					result.Stats.BuildTime.Round(time.Millisecond),
					result.Stats.SimulateTime.Round(time.Millisecond),
					result.Stats.DecodeTime.Round(time.Millisecond))
				printNextStep("Render a graph", fmt.Sprintf("qec render %s -f svg", output))
			}
			return nil
		},
	}

	addCodeFlags(cmd, &opts)
	cmd.Flags().StringVarP(&opts.Logical, "logical", "l", opts.Logical, `logical state to prepare: "0" or "1"`)
	cmd.Flags().IntVarP(&opts.Shots, "shots", "n", opts.Shots, "number of shots to sample")
	cmd.Flags().Int64Var(&opts.Seed, "seed", opts.Seed, "simulator seed")
	cmd.Flags().BoolVar(&opts.AllLogicals, "all-logicals", false, "emit boundary nodes for every logical")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even on cache hits")

	return cmd
}
