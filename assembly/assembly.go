// Package assembly provides the typed AND/OR graph the planner runs on.
//
// Nodes are either subassemblies (OR: their successors enumerate alternative
// decompositions) or actions (AND: their successors are the subassemblies
// produced jointly). Interaction and interassembly kinds are auxiliary: the
// result assembler re-tags an action that served as a reachability handoff
// as an interaction; no part of the pipeline produces interassembly nodes.
// Every edge runs
// SUBASSEMBLY->ACTION or ACTION->SUBASSEMBLY; Validate rejects anything else.
package assembly

import "github.com/meikuraledutech/aoplan/graph"

// Kind tags an assembly-graph node.
type Kind int

const (
	KindAction Kind = iota
	KindSubassembly
	KindInteraction
	KindInterassembly
)

var kindNames = map[Kind]string{
	KindAction:        "action",
	KindSubassembly:   "subassembly",
	KindInteraction:   "interaction",
	KindInterassembly: "interassembly",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// NodeData is the payload of one assembly-graph node.
//
// AssignedAgent and the Interaction* identifiers are only meaningful on
// action nodes and are filled in after planning: AssignedAgent names the
// agent the plan chose, and on a consuming action the Interaction* fields
// record its handoff (the unreachable subassembly, the interaction node, and
// the first subassembly the consuming action produces).
type NodeData struct {
	Kind Kind
	Name string

	AssignedAgent   string
	InteractionPrev graph.NodeID
	InteractionAlt  graph.NodeID
	InteractionNext graph.NodeID
}

// Graph is the concrete directed graph the planner traverses. Assembly
// edges carry no payload; all edge semantics live in the node kinds.
type Graph = graph.Graph[NodeData, struct{}]

// New returns an empty assembly graph.
func New() *Graph {
	return graph.New[NodeData, struct{}]()
}
