// Package xmlio reads assembly descriptions and writes plan documents.
//
// The input format is a single <assembly> element holding the agent roster
// and the AND/OR graph; parsing produces the assembly graph plus the
// configuration, both fully validated. The output format is the planned
// <graph> with the agent chosen for every action.
package xmlio

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/meikuraledutech/aoplan"
	"github.com/meikuraledutech/aoplan/assembly"
	"github.com/meikuraledutech/aoplan/graph"
)

type assemblyDoc struct {
	XMLName xml.Name  `xml:"assembly"`
	Agents  []agentEl `xml:"agents>agent"`
	Graph   graphEl   `xml:"graph"`
}

type agentEl struct {
	Name string `xml:"name,attr"`
	Host string `xml:"host,attr"`
	Port string `xml:"port,attr"`
}

type graphEl struct {
	Root  string   `xml:"root,attr"`
	Nodes []nodeEl `xml:"nodes>node"`
	Edges []edgeEl `xml:"edges>edge"`
}

type nodeEl struct {
	Name    string    `xml:"name,attr"`
	Type    string    `xml:"type,attr"`
	Reaches []reachEl `xml:"reach"`
	Costs   []costEl  `xml:"cost"`
}

type reachEl struct {
	Agent       string         `xml:"agent,attr"`
	Reachable   string         `xml:"reachable,attr"`
	Interaction *interactionEl `xml:"interaction"`
}

type interactionEl struct {
	Name  string   `xml:"name,attr"`
	Costs []costEl `xml:"cost"`
}

type costEl struct {
	Agent string `xml:"agent,attr"`
	Value string `xml:"value,attr"`
}

type edgeEl struct {
	Start string `xml:"start,attr"`
	End   string `xml:"end,attr"`
}

// ReadFile reads and validates an assembly description from a file.
func ReadFile(path string) (*assembly.Graph, graph.NodeID, *aoplan.Configuration, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("xmlio: %w", err)
	}
	defer f.Close()
	g, root, cfg, err := Read(f)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("xmlio: %s: %w", path, err)
	}
	return g, root, cfg, nil
}

// Read parses an assembly description and returns the assembly graph, its
// root node and the configuration. Both the configuration and the graph
// structure are validated before returning; on any error nothing usable is
// returned.
func Read(r io.Reader) (*assembly.Graph, graph.NodeID, *aoplan.Configuration, error) {
	var doc assemblyDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, 0, nil, fmt.Errorf("decode: %w", err)
	}

	cfg := aoplan.NewConfiguration()
	for _, a := range doc.Agents {
		if a.Name == "" {
			return nil, 0, nil, fmt.Errorf("<agent> missing name attribute")
		}
		cfg.Agents[a.Name] = aoplan.Agent{Name: a.Name, Host: a.Host, Port: a.Port}
	}

	factory := assembly.NewFactory()
	for _, n := range doc.Graph.Nodes {
		if n.Name == "" {
			return nil, 0, nil, fmt.Errorf("<node> missing name attribute")
		}
		switch n.Type {
		case "OR":
			factory.InsertOr(n.Name)
			reach, err := parseReachMap(cfg, n)
			if err != nil {
				return nil, 0, nil, err
			}
			cfg.Subassemblies[n.Name] = aoplan.Subassembly{Name: n.Name, Reachability: reach}
		case "AND":
			factory.InsertAnd(n.Name)
			costs, err := parseCostMap(n.Name, n.Costs)
			if err != nil {
				return nil, 0, nil, err
			}
			cfg.Actions[n.Name] = aoplan.Action{Name: n.Name, Costs: costs}
		default:
			return nil, 0, nil, fmt.Errorf("node %q: unsupported type %q", n.Name, n.Type)
		}
	}

	for _, e := range doc.Graph.Edges {
		if e.Start == "" || e.End == "" {
			return nil, 0, nil, fmt.Errorf("<edge> missing start or end attribute")
		}
		if !factory.InsertEdge(e.Start, e.End) {
			return nil, 0, nil, fmt.Errorf("edge %q -> %q references an unknown node", e.Start, e.End)
		}
	}

	if doc.Graph.Root == "" {
		return nil, 0, nil, fmt.Errorf("<graph> missing root attribute")
	}
	if !factory.SetRoot(doc.Graph.Root) {
		return nil, 0, nil, fmt.Errorf("root %q is not a node of the graph", doc.Graph.Root)
	}

	if err := cfg.Validate(); err != nil {
		return nil, 0, nil, err
	}
	g := factory.Graph()
	root, _ := factory.Root()
	if err := assembly.Validate(g, root, cfg); err != nil {
		return nil, 0, nil, err
	}
	return g, root, cfg, nil
}

func parseReachMap(cfg *aoplan.Configuration, n nodeEl) (map[string]aoplan.Reach, error) {
	reach := make(map[string]aoplan.Reach, len(n.Reaches))
	for _, r := range n.Reaches {
		if r.Agent == "" {
			return nil, fmt.Errorf("node %q: <reach> missing agent attribute", n.Name)
		}
		switch strings.ToLower(r.Reachable) {
		case "true":
			reach[r.Agent] = aoplan.Reach{Reachable: true}
		case "false":
			if r.Interaction == nil {
				return nil, fmt.Errorf("node %q: <interaction> is missing for non-reachable subassembly", n.Name)
			}
			if r.Interaction.Name == "" {
				return nil, fmt.Errorf("node %q: <interaction> missing name attribute", n.Name)
			}
			costs, err := parseCostMap(r.Interaction.Name, r.Interaction.Costs)
			if err != nil {
				return nil, err
			}
			// Interactions are registered as regular actions; the reach
			// entry keeps only the name.
			cfg.Actions[r.Interaction.Name] = aoplan.Action{Name: r.Interaction.Name, Costs: costs}
			reach[r.Agent] = aoplan.Reach{Reachable: false, Interaction: r.Interaction.Name}
		default:
			return nil, fmt.Errorf("node %q: <reach> reachable must be true or false, got %q", n.Name, r.Reachable)
		}
	}
	return reach, nil
}

func parseCostMap(owner string, costs []costEl) (map[string]float64, error) {
	m := make(map[string]float64, len(costs))
	for _, c := range costs {
		if c.Agent == "" {
			return nil, fmt.Errorf("%q: <cost> missing agent attribute", owner)
		}
		value := strings.ToLower(c.Value)
		if value == "inf" {
			m[c.Agent] = math.Inf(1)
			continue
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("%q: cost for agent %q must be a number or 'inf', got %q", owner, c.Agent, c.Value)
		}
		if f < 0 {
			return nil, fmt.Errorf("%q: cost for agent %q is negative", owner, c.Agent)
		}
		m[c.Agent] = f
	}
	return m, nil
}
