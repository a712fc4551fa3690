package assembly

import (
	"errors"
	"fmt"

	"github.com/meikuraledutech/aoplan"
	"github.com/meikuraledutech/aoplan/graph"
)

var (
	ErrCycleDetected = errors.New("assembly: cycle detected, graph is not acyclic")
	ErrNotBipartite  = errors.New("assembly: AND/OR alternation violated")
	ErrBadRoot       = errors.New("assembly: root is not a subassembly")
)

// Validate checks the structural and configuration invariants once after
// construction: every edge connects opposite kinds, the root is a
// subassembly, the graph is acyclic, and the configuration covers every
// node (a full cost map per action, a full reachability map per
// subassembly).
func Validate(g *Graph, root graph.NodeID, cfg *aoplan.Configuration) error {
	rootNode, ok := g.Node(root)
	if !ok {
		return fmt.Errorf("assembly: root node %d: %w", root, graph.ErrNodeNotFound)
	}
	if rootNode.Data.Kind != KindSubassembly {
		return fmt.Errorf("%w: %q is %s", ErrBadRoot, rootNode.Data.Name, rootNode.Data.Kind)
	}

	if err := validateAlternation(g); err != nil {
		return err
	}
	if err := validateAcyclic(g); err != nil {
		return err
	}
	return validateCoverage(g, cfg)
}

func validateAlternation(g *Graph) error {
	for _, eid := range g.Edges() {
		e, _ := g.Edge(eid)
		from, _ := g.Node(e.From)
		to, _ := g.Node(e.To)
		switch from.Data.Kind {
		case KindSubassembly:
			if to.Data.Kind != KindAction {
				return fmt.Errorf("%w: OR-OR edge %q -> %q", ErrNotBipartite, from.Data.Name, to.Data.Name)
			}
		case KindAction:
			if to.Data.Kind != KindSubassembly {
				return fmt.Errorf("%w: AND-AND edge %q -> %q", ErrNotBipartite, from.Data.Name, to.Data.Name)
			}
		}
	}
	return nil
}

// validateAcyclic runs a three-state DFS over the whole graph.
func validateAcyclic(g *Graph) error {
	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)

	state := make(map[graph.NodeID]int, g.NumNodes())

	var dfs func(id graph.NodeID) bool
	dfs = func(id graph.NodeID) bool {
		state[id] = visiting
		succ, _ := g.SuccessorNodes(id)
		for _, next := range succ {
			switch state[next] {
			case visiting:
				return true
			case unvisited:
				if dfs(next) {
					return true
				}
			}
		}
		state[id] = visited
		return false
	}

	for _, id := range g.Nodes() {
		if state[id] == unvisited {
			if dfs(id) {
				return ErrCycleDetected
			}
		}
	}
	return nil
}

func validateCoverage(g *Graph, cfg *aoplan.Configuration) error {
	for _, id := range g.Nodes() {
		n, _ := g.Node(id)
		switch n.Data.Kind {
		case KindAction:
			action, ok := cfg.Actions[n.Data.Name]
			if !ok {
				return fmt.Errorf("assembly: action %q has no cost table", n.Data.Name)
			}
			for agent := range cfg.Agents {
				if _, ok := action.Costs[agent]; !ok {
					return fmt.Errorf("assembly: cost of %q for agent %q is missing", n.Data.Name, agent)
				}
			}
		case KindSubassembly:
			sa, ok := cfg.Subassemblies[n.Data.Name]
			if !ok {
				return fmt.Errorf("assembly: subassembly %q has no reachability table", n.Data.Name)
			}
			for agent := range cfg.Agents {
				if _, ok := sa.Reachability[agent]; !ok {
					return fmt.Errorf("assembly: reach of %q for agent %q is missing", n.Data.Name, agent)
				}
			}
		}
	}
	return nil
}
