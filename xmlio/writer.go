package xmlio

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/meikuraledutech/aoplan/assembly"
)

type planDoc struct {
	XMLName xml.Name   `xml:"graph"`
	Root    string     `xml:"root,attr"`
	Nodes   []planNode `xml:"nodes>node"`
	Edges   []planEdge `xml:"edges>edge"`
}

type planNode struct {
	Name  string     `xml:"name,attr"`
	Type  string     `xml:"type,attr"`
	Agent *planAgent `xml:"agent"`
}

type planAgent struct {
	Name string `xml:"name,attr"`
}

type planEdge struct {
	From string `xml:"from,attr"`
	To   string `xml:"to,attr"`
}

// WritePlan emits the planned assembly graph. Subassemblies are written as
// OR nodes, actions and interactions as AND nodes carrying the assigned
// agent. Edge attributes follow the inherited convention of the format:
// from names the edge's destination and to names its source.
//
// The document is marshalled in full before anything is written, so a
// failing writer never leaves partial output behind.
func WritePlan(w io.Writer, g *assembly.Graph, rootName string) error {
	doc := planDoc{Root: rootName}

	for _, id := range g.Nodes() {
		n, _ := g.Node(id)
		switch n.Data.Kind {
		case assembly.KindSubassembly:
			doc.Nodes = append(doc.Nodes, planNode{Name: n.Data.Name, Type: "OR"})
		case assembly.KindAction, assembly.KindInteraction:
			doc.Nodes = append(doc.Nodes, planNode{
				Name:  n.Data.Name,
				Type:  "AND",
				Agent: &planAgent{Name: n.Data.AssignedAgent},
			})
		}
	}

	for _, eid := range g.Edges() {
		e, _ := g.Edge(eid)
		src, _ := g.Node(e.From)
		dst, _ := g.Node(e.To)
		doc.Edges = append(doc.Edges, planEdge{From: dst.Data.Name, To: src.Data.Name})
	}

	out, err := xml.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("xmlio: marshal plan: %w", err)
	}
	if _, err := w.Write(append(out, '\n')); err != nil {
		return fmt.Errorf("xmlio: write plan: %w", err)
	}
	return nil
}

// WritePlanFile writes the planned graph to a file, creating or truncating
// it.
func WritePlanFile(path string, g *assembly.Graph, rootName string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("xmlio: %w", err)
	}
	if err := WritePlan(f, g, rootName); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
