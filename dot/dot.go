// Package dot renders an assembly graph as a Graphviz document.
package dot

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/meikuraledutech/aoplan/assembly"
)

// Write renders the graph in DOT form: actions and interactions as boxes,
// subassemblies as ellipses, with planned edges labelled by the agent that
// performs the action.
func Write(w io.Writer, g *assembly.Graph, name string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %q {\n", name)

	for _, id := range g.Nodes() {
		n, _ := g.Node(id)
		switch n.Data.Kind {
		case assembly.KindSubassembly:
			fmt.Fprintf(&b, "    %q [shape=ellipse];\n", n.Data.Name)
		case assembly.KindAction, assembly.KindInteraction:
			if n.Data.AssignedAgent != "" {
				fmt.Fprintf(&b, "    %q [shape=box, label=\"%s\\n(%s)\"];\n",
					n.Data.Name, n.Data.Name, n.Data.AssignedAgent)
			} else {
				fmt.Fprintf(&b, "    %q [shape=box];\n", n.Data.Name)
			}
		}
	}

	for _, eid := range g.Edges() {
		e, _ := g.Edge(eid)
		src, _ := g.Node(e.From)
		dst, _ := g.Node(e.To)
		label := ""
		if dst.Data.Kind != assembly.KindSubassembly && dst.Data.AssignedAgent != "" {
			label = fmt.Sprintf(" [label=%q]", dst.Data.AssignedAgent)
		}
		fmt.Fprintf(&b, "    %q -> %q%s;\n", src.Data.Name, dst.Data.Name, label)
	}

	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("dot: %w", err)
	}
	return nil
}

// WriteFile renders the graph to a file.
func WriteFile(path string, g *assembly.Graph, name string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dot: %w", err)
	}
	if err := Write(f, g, name); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
