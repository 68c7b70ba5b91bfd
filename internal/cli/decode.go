package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hetenyib/qiskit-qec/pkg/graph"
)

// decodeCommand creates the decode command for converting shots to graphs.
func (c *CLI) decodeCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)
	opts := codeOptions(DefaultConfig().Code)

	cmd := &cobra.Command{
		Use:   "decode [shots-file]",
		Short: "Convert measurement shots into detection graphs",
		Long: `Convert measurement shots into detection graphs.

Reads one shot per line from the given file (or stdin when the argument
is "-" or omitted) and produces one detection graph per shot: the
detection events plus boundary nodes when the raw logical readout
disagrees with the prepared state. The code parameters must match the
circuit the shots came from.

The output is a JSON array of graphs, suitable for 'qec render'.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mergeCodeConfig(cmd, &opts, c.config().Code)
			opts.Refresh = refresh

			input := "-"
			if len(args) == 1 {
				input = args[0]
			}
			shots, err := readShots(input)
			if err != nil {
				return err
			}
			if len(shots) == 0 {
				return fmt.Errorf("no shots in %s", input)
			}
			opts.Shots = len(shots)

			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			code, err := runner.Build(cmd.Context(), opts)
			if err != nil {
				return err
			}
			graphs, cached, err := runner.DecodeWithCacheInfo(cmd.Context(), code, shots, opts)
			if err != nil {
				return err
			}

			if err := writeGraphs(graphs, output); err != nil {
				return err
			}
			if output != "" {
				printSuccess("Decoded %d shots", len(shots))
				printFile(output)
				printStats(len(shots), countNodes(graphs), cached)
				printNextStep("Render a graph", fmt.Sprintf("qec render %s -f svg", output))
			}
			return nil
		},
	}

	addCodeFlags(cmd, &opts)
	cmd.Flags().StringVarP(&opts.Logical, "logical", "l", opts.Logical, `prepared logical state: "0" or "1"`)
	cmd.Flags().BoolVar(&opts.AllLogicals, "all-logicals", false, "emit boundary nodes for every logical")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-decode even on a cache hit")

	return cmd
}

// readShots reads newline-separated shot strings from path, or from stdin
// when path is "-". Blank lines are skipped.
func readShots(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open shots %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	var shots []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			shots = append(shots, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read shots: %w", err)
	}
	return shots, nil
}

// writeGraphs writes graphs as indented JSON to path, or stdout when path
// is empty.
func writeGraphs(graphs []graph.Graph, path string) error {
	data, err := json.MarshalIndent(graphs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal graphs: %w", err)
	}
	data = append(data, '\n')
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// countNodes sums detection events across graphs.
func countNodes(graphs []graph.Graph) int {
	n := 0
	for _, g := range graphs {
		n += len(g.Nodes)
	}
	return n
}
