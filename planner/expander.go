package planner

import (
	"math"
	"sort"

	"github.com/meikuraledutech/aoplan"
	"github.com/meikuraledutech/aoplan/assembly"
	"github.com/meikuraledutech/aoplan/graph"
)

// NodeExpander turns one search-graph state into its successor states. For
// every legal multi-agent assignment over the state's AND-frontier it
// inserts a child node and an edge whose cost is the parallel (maximum)
// cost of the assignment.
type NodeExpander struct {
	assembly *assembly.Graph
	cfg      *aoplan.Configuration
	search   *SearchGraph
	comb     *Combinator
}

// NewNodeExpander wires an expander to the search graph it populates.
func NewNodeExpander(g *assembly.Graph, cfg *aoplan.Configuration, search *SearchGraph) *NodeExpander {
	return &NodeExpander{
		assembly: g,
		cfg:      cfg,
		search:   search,
		comb:     NewCombinator(cfg),
	}
}

// ExpandNode materialises the children of the given search state and
// returns the outgoing edges. Assignments that are illegal (a non-finite
// cost, or an unreachable subassembly without its interaction co-performed)
// are skipped; a state whose every assignment is filtered out simply gets
// no children.
func (e *NodeExpander) ExpandNode(id graph.NodeID) ([]graph.EdgeID, error) {
	node, ok := e.search.Node(id)
	if !ok {
		return nil, graph.ErrNodeNotFound
	}
	data := &node.Data

	// Refresh the AND-frontier: the union of the action successors of
	// every frontier subassembly. Names are walked in sorted order so the
	// expansion order is stable.
	names := make([]string, 0, len(data.Subassemblies))
	for name := range data.Subassemblies {
		names = append(names, name)
	}
	sort.Strings(names)

	clear(data.Actions)
	frontier := make([]graph.NodeID, 0, len(names))
	for _, name := range names {
		sid := data.Subassemblies[name]
		frontier = append(frontier, sid)
		succ, _ := e.assembly.SuccessorNodes(sid)
		for _, aid := range succ {
			an, _ := e.assembly.Node(aid)
			data.Actions[an.Data.Name] = aid
		}
	}

	for _, a := range e.comb.GenerateAgentActionAssignments(e.assembly, frontier) {
		if !e.legal(data, a) {
			continue
		}
		e.insertChild(id, data, a)
	}

	out, _ := e.search.OutEdges(id)
	return out, nil
}

// legal applies the assignment filter: every cost must be finite, and for
// every frontier subassembly an action consumes, the acting agent must
// either reach it or have the required interaction performed by another
// triple of the same assignment.
func (e *NodeExpander) legal(parent *SearchData, a []AgentActionAssignment) bool {
	for _, t := range a {
		if math.IsInf(e.cfg.Cost(t.Action, t.Agent), 1) {
			return false
		}
		preds, _ := e.assembly.PredecessorNodes(t.ActionNode)
		for _, pid := range preds {
			pn, _ := e.assembly.Node(pid)
			name := pn.Data.Name
			if sid, ok := parent.Subassemblies[name]; !ok || sid != pid {
				continue
			}
			reach := e.cfg.Subassemblies[name].Reachability[t.Agent]
			if reach.Reachable {
				continue
			}
			if !performsAction(a, reach.Interaction, t.Agent) {
				return false
			}
		}
	}
	return true
}

// performsAction reports whether some triple other than actor's own
// performs the named action.
func performsAction(a []AgentActionAssignment, action, actor string) bool {
	if action == "" {
		return false
	}
	for _, t := range a {
		if t.Action == action && t.Agent != actor {
			return true
		}
	}
	return false
}

func (e *NodeExpander) insertChild(parent graph.NodeID, data *SearchData, a []AgentActionAssignment) {
	subs := make(map[string]graph.NodeID, len(data.Subassemblies))
	for name, sid := range data.Subassemblies {
		subs[name] = sid
	}

	minCost := math.MaxFloat64
	maxCost := 0.0
	for _, t := range a {
		cost := e.cfg.Cost(t.Action, t.Agent)
		if cost < minCost {
			minCost = cost
		}
		if cost > maxCost {
			maxCost = cost
		}

		// Resolve the consumed subassemblies and add the produced ones.
		preds, _ := e.assembly.PredecessorNodes(t.ActionNode)
		for _, pid := range preds {
			pn, _ := e.assembly.Node(pid)
			if sid, ok := subs[pn.Data.Name]; ok && sid == pid {
				delete(subs, pn.Data.Name)
			}
		}
		succ, _ := e.assembly.SuccessorNodes(t.ActionNode)
		for _, sid := range succ {
			sn, _ := e.assembly.Node(sid)
			subs[sn.Data.Name] = sid
		}
	}

	child := e.search.InsertNode(SearchData{
		MinimumCostAction: math.Min(data.MinimumCostAction, minCost),
		Subassemblies:     subs,
		Actions:           map[string]graph.NodeID{},
	})

	// The combinator reuses its buffers, so the edge keeps its own copy.
	assignments := append([]AgentActionAssignment(nil), a...)
	e.search.InsertEdge(EdgeData{Assignments: assignments, Cost: maxCost}, parent, child)
}
