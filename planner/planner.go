// Package planner computes minimum-cost multi-agent assembly plans over an
// AND/OR assembly graph.
//
// The pipeline is strictly sequential: the A* search drives a node expander,
// which drives a combinator. The search graph is built lazily during the
// search and discarded when Plan returns; the assembly graph is only
// mutated afterwards, when the result assembler writes the chosen agents
// back into the action nodes.
package planner

import (
	"context"
	"errors"
	"math"

	"github.com/meikuraledutech/aoplan"
	"github.com/meikuraledutech/aoplan/assembly"
	"github.com/meikuraledutech/aoplan/graph"
)

// ErrNoPlan is returned when the search exhausts the frontier without
// reaching a goal state.
var ErrNoPlan = errors.New("planner: no plan found")

// AgentActionAssignment binds one agent to one action node for one step.
type AgentActionAssignment struct {
	Agent      string
	Action     string
	ActionNode graph.NodeID
}

// SearchData is the payload of a search-graph node: the OR-frontier still
// to be resolved, the AND-frontier reachable from it, and the A* scores.
type SearchData struct {
	Marked bool

	GScore float64
	HScore float64
	FScore float64

	// MinimumCostAction is the minimum per-agent action cost seen along
	// the path from the root, feeding the heuristic.
	MinimumCostAction float64

	Subassemblies map[string]graph.NodeID
	Actions       map[string]graph.NodeID
}

// EdgeData is the payload of a search-graph edge: the multi-agent
// assignment chosen at the transition and its parallel cost (the maximum
// of the per-agent costs).
type EdgeData struct {
	Assignments []AgentActionAssignment
	Cost        float64
}

// SearchGraph is the lazily expanded graph the A* search runs on.
type SearchGraph = graph.Graph[SearchData, EdgeData]

// Planner runs the full pipeline over one assembly graph.
type Planner struct {
	assembly *assembly.Graph
	root     graph.NodeID
	cfg      *aoplan.Configuration
}

// New returns a planner over a validated assembly graph.
func New(g *assembly.Graph, root graph.NodeID, cfg *aoplan.Configuration) *Planner {
	return &Planner{assembly: g, root: root, cfg: cfg}
}

// Plan searches for the cheapest assembly plan and returns it. On success
// the chosen agents are written into the assembly graph's action nodes and
// handoff actions are re-tagged as interactions. Returns ErrNoPlan when every branch
// dead-ends, or the context error on cancellation.
func (p *Planner) Plan(ctx context.Context) (*aoplan.Plan, error) {
	rootNode, ok := p.assembly.Node(p.root)
	if !ok {
		return nil, graph.ErrNodeNotFound
	}
	rootName := rootNode.Data.Name

	search := graph.New[SearchData, EdgeData]()
	start := search.InsertNode(SearchData{
		MinimumCostAction: math.MaxFloat64,
		Subassemblies:     map[string]graph.NodeID{rootName: p.root},
		Actions:           map[string]graph.NodeID{},
	})

	expander := NewNodeExpander(p.assembly, p.cfg, search)
	astar := NewAStarSearch(p.assembly)

	goal, err := astar.Search(ctx, search, start, expander)
	if err != nil {
		return nil, err
	}

	return assemblePlan(search, goal, p.assembly, p.cfg, rootName), nil
}
