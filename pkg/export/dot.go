package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/soundprediction/relgraph"
)

// DOTOptions controls the Graphviz rendering.
type DOTOptions struct {
	// Name is the graph name in the DOT header. Default "relgraph".
	Name string
	// SizeByDegree scales node width with degree when set.
	SizeByDegree bool
	// LabelEdges annotates edges with their relationship type.
	LabelEdges bool
}

// WriteDOT renders the graph in Graphviz DOT form so it can be laid out
// with any dot-compatible tool. Output is deterministic: nodes and edges
// appear in sorted order.
func WriteDOT(w io.Writer, g *relgraph.Graph, opts DOTOptions) error {
	name := opts.Name
	if name == "" {
		name = "relgraph"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "graph %q {\n", name)
	b.WriteString("  node [shape=circle];\n")

	for _, id := range g.Nodes() {
		if opts.SizeByDegree {
			width := 0.5 + 0.15*float64(g.Degree(id))
			fmt.Fprintf(&b, "  %q [width=%.2f];\n", id, width)
		} else {
			fmt.Fprintf(&b, "  %q;\n", id)
		}
	}

	for _, e := range g.Edges() {
		attrs := make([]string, 0, 2)
		if opts.LabelEdges && e.RelationshipType != "" {
			attrs = append(attrs, fmt.Sprintf("label=%q", e.RelationshipType))
		}
		if e.Count > 1 {
			attrs = append(attrs, fmt.Sprintf("penwidth=%d", e.Count))
		}
		if len(attrs) > 0 {
			fmt.Fprintf(&b, "  %q -- %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
		} else {
			fmt.Fprintf(&b, "  %q -- %q;\n", e.Source, e.Target)
		}
	}

	b.WriteString("}\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write dot output: %w", err)
	}
	return nil
}
