package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// simulateCommand creates the simulate command for sampling shots.
func (c *CLI) simulateCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)
	opts := codeOptions(DefaultConfig().Code)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Sample measurement shots from the stabilizer simulator",
		Long: `Sample measurement shots from the stabilizer simulator.

Builds the syndrome-measurement circuit for the requested logical state
and runs it through the CHP stabilizer simulator. Each shot is one line:
the final code-qubit readout followed by the per-round plaquette
measurements, newest round first.

Shot batches are cached by circuit, shot count, and seed. Use --refresh
to resample, or --no-cache to bypass the cache entirely.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mergeCodeConfig(cmd, &opts, c.config().Code)
			opts.Refresh = refresh

			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			code, err := runner.Build(cmd.Context(), opts)
			if err != nil {
				return err
			}

			spinner := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Sampling %d shots...", opts.Shots))
			spinner.Start()
			shots, cached, err := runner.SimulateWithCacheInfo(cmd.Context(), code, opts)
			if err != nil {
				spinner.StopWithError("Simulation failed")
				return err
			}
			spinner.Stop()

			data := strings.Join(shots, "\n") + "\n"
			if output == "" {
				fmt.Print(data)
				return nil
			}
			if err := os.WriteFile(output, []byte(data), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Sampled %d shots", len(shots))
			printFile(output)
			printStats(len(shots), -1, cached)
			printNextStep("Decode the shots", fmt.Sprintf("qec decode %s -d %d -t %d", output, opts.Distance, opts.Rounds))
			return nil
		},
	}

	addCodeFlags(cmd, &opts)
	cmd.Flags().StringVarP(&opts.Logical, "logical", "l", opts.Logical, `logical state to prepare: "0" or "1"`)
	cmd.Flags().IntVarP(&opts.Shots, "shots", "n", opts.Shots, "number of shots to sample")
	cmd.Flags().Int64Var(&opts.Seed, "seed", opts.Seed, "simulator seed")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "resample even on a cache hit")

	return cmd
}
