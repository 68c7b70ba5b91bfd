package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hetenyib/qiskit-qec/pkg/cache"
	"github.com/hetenyib/qiskit-qec/pkg/graph"
	"github.com/hetenyib/qiskit-qec/pkg/render"
)

// Render formats accepted by --format.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPNG = "png"
)

// renderCommand creates the render command for detection graphs.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		format   string
		output   string
		index    int
		detailed bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "render [graphs.json]",
		Short: "Render a detection graph with graphviz",
		Long: `Render a detection graph with graphviz.

Reads a graph file produced by 'qec decode' or 'qec run' (a JSON array,
or a single graph object) and renders one graph as DOT, SVG, or PNG.
Use --index to pick a graph from an array.

SVG and PNG rendering goes through graphviz; rendered output is cached
by DOT content and format.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			graphs, err := readGraphs(args[0])
			if err != nil {
				return err
			}
			if index < 0 || index >= len(graphs) {
				return fmt.Errorf("index %d out of range: %s has %d graphs", index, args[0], len(graphs))
			}

			g := graphs[index]
			if err := g.Validate(); err != nil {
				return err
			}

			dot := render.GraphDOT(g, render.Options{Detailed: detailed})
			base := strings.TrimSuffix(args[0], ".json")
			return c.writeRendered(cmd.Context(), dot, format, output, fmt.Sprintf("%s_%d", base, index), noCache)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatDOT, "output format: dot, svg, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default derived from input)")
	cmd.Flags().IntVar(&index, "index", 0, "graph index within the input file")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include qubit supports in node labels")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable render caching")

	return cmd
}

// readGraphs loads a graph file that holds either a JSON array of graphs
// or a single graph object.
func readGraphs(path string) ([]graph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graphs %s: %w", path, err)
	}
	var graphs []graph.Graph
	if err := json.Unmarshal(data, &graphs); err == nil {
		return graphs, nil
	}
	g, err := graph.Read(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parse graphs %s: %w", path, err)
	}
	return []graph.Graph{g}, nil
}

// writeRendered converts DOT into the requested format and writes it to
// output, or to base.<format> when output is empty. Graphviz output is
// cached keyed by the DOT content hash and format.
func (c *CLI) writeRendered(ctx context.Context, dot, format, output, base string, noCache bool) error {
	var (
		data   []byte
		cached bool
	)
	switch format {
	case formatDOT:
		data = []byte(dot)
	case formatSVG, formatPNG:
		var err error
		data, cached, err = c.renderCached(ctx, dot, format, noCache)
		if err != nil {
			return fmt.Errorf("render %s: %w", format, err)
		}
	default:
		return fmt.Errorf("unknown format %q (want dot, svg, or png)", format)
	}

	if output == "" {
		output = base + "." + format
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Rendered %s", format)
	printFile(output)
	if cached {
		printDetail("render %s", iconCached)
	}
	return nil
}

// renderCached runs graphviz with a content-addressed cache in front.
func (c *CLI) renderCached(ctx context.Context, dot, format string, noCache bool) ([]byte, bool, error) {
	store, err := c.newCache(noCache)
	if err != nil {
		return nil, false, err
	}
	defer store.Close()

	keyer := cache.NewDefaultKeyer()
	key := keyer.RenderKey(cache.Hash([]byte(dot)), format)
	if data, ok, err := store.Get(ctx, key); err == nil && ok {
		return data, true, nil
	}

	var data []byte
	switch format {
	case formatSVG:
		data, err = render.RenderSVG(ctx, dot)
	case formatPNG:
		data, err = render.RenderPNG(ctx, dot)
	}
	if err != nil {
		return nil, false, err
	}
	if err := store.Set(ctx, key, data, cache.TTLRender); err != nil {
		c.Logger.Debug("Render cache write failed", "err", err)
	}
	return data, false, nil
}
