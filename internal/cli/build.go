package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// buildCommand creates the build command for emitting OpenQASM circuits.
func (c *CLI) buildCommand() *cobra.Command {
	var output string
	opts := codeOptions(DefaultConfig().Code)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Emit the syndrome-measurement circuit as OpenQASM 2.0",
		Long: `Emit the syndrome-measurement circuit as OpenQASM 2.0.

The circuit prepares the requested logical state, runs the configured
number of syndrome-measurement rounds, and ends with a transversal
readout of every code qubit. One circuit exists per logical value ("0"
and "1"); --logical selects which one is printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mergeCodeConfig(cmd, &opts, c.config().Code)

			runner, err := c.newRunner(true)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(c.Logger)
			code, err := runner.Build(cmd.Context(), opts)
			if err != nil {
				return err
			}
			circ := code.Circuit(opts.Logical)
			if circ == nil {
				return fmt.Errorf("no circuit for logical %q", opts.Logical)
			}
			prog.done(fmt.Sprintf("Built distance-%d circuit", opts.Distance))

			qasm := circ.QASM()
			if output == "" {
				fmt.Print(qasm)
				return nil
			}
			if err := os.WriteFile(output, []byte(qasm), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Wrote circuit")
			printFile(output)
			return nil
		},
	}

	addCodeFlags(cmd, &opts)
	cmd.Flags().StringVarP(&opts.Logical, "logical", "l", opts.Logical, `logical state to prepare: "0" or "1"`)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}
