package cli

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hetenyib/qiskit-qec/pkg/render"
	"github.com/hetenyib/qiskit-qec/pkg/surface"
)

// latticeCommand creates the lattice inspection command.
func (c *CLI) latticeCommand() *cobra.Command {
	var (
		format      string
		output      string
		detailed    bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "lattice [distance]",
		Short: "Inspect a rotated surface-code lattice",
		Long: `Inspect a rotated surface-code lattice.

Without flags, prints a summary of the lattice: qubit count, stabilizer
counts per basis, and the logical operator supports. With --format, emits
a graphviz rendering of the qubit grid and plaquettes instead.

Use --interactive to browse plaquettes one by one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := c.config().Code.Distance
			if len(args) == 1 {
				parsed, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid distance %q", args[0])
				}
				d = parsed
			}

			lat, err := surface.NewLattice(d)
			if err != nil {
				return err
			}

			if interactive {
				return browsePlaquettes(lat)
			}
			if format != "" {
				dot := render.LatticeDOT(lat, render.Options{Detailed: detailed})
				return c.writeRendered(cmd.Context(), dot, format, output, fmt.Sprintf("lattice_d%d", d), false)
			}

			printLatticeSummary(lat, detailed)
			printNextStep("Build the circuit", fmt.Sprintf("qec build -d %d", d))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "render format: dot, svg, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default derived from distance)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include qubit supports in output")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse plaquettes interactively")

	return cmd
}

// printLatticeSummary prints the lattice layout as styled text.
func printLatticeSummary(l *surface.Lattice, detailed bool) {
	d := l.Distance()
	fmt.Println(StyleTitle.Render(fmt.Sprintf("Rotated surface code, distance %d", d)))
	printKeyValue("qubits", strconv.Itoa(l.NumQubits()))
	printKeyValue("Z plaquettes", strconv.Itoa(l.NumStabilizers(surface.BasisZ)))
	printKeyValue("X plaquettes", strconv.Itoa(l.NumStabilizers(surface.BasisX)))
	printKeyValue("Z logicals", fmt.Sprintf("%v %v", l.Logical(surface.BasisZ, 0), l.Logical(surface.BasisZ, 1)))
	printKeyValue("X logicals", fmt.Sprintf("%v %v", l.Logical(surface.BasisX, 0), l.Logical(surface.BasisX, 1)))

	if !detailed {
		return
	}
	for _, b := range []surface.Basis{surface.BasisZ, surface.BasisX} {
		fmt.Println()
		fmt.Println(StyleHighlight.Render(fmt.Sprintf("%s plaquettes", b)))
		for i, p := range l.Plaquettes(b) {
			printDetail("%s%d weight %d support %v", b, i, p.Weight(), p.Support())
		}
	}
}

// browsePlaquettes runs the interactive plaquette browser.
func browsePlaquettes(l *surface.Lattice) error {
	model := newPlaquetteModel(l)
	_, err := tea.NewProgram(model).Run()
	return err
}
