package planner

import (
	"container/heap"
	"context"
	"math"

	"github.com/meikuraledutech/aoplan/assembly"
	"github.com/meikuraledutech/aoplan/graph"
)

// AStarSearch drives the best-first search over the lazily expanded search
// graph. The expander is invoked one level ahead: a node's children are
// materialised when the node itself is scored, so every popped state
// already has its outgoing edges in place.
type AStarSearch struct {
	assembly *assembly.Graph
}

// NewAStarSearch returns a search bound to the assembly graph it tests
// goals against.
func NewAStarSearch(g *assembly.Graph) *AStarSearch {
	return &AStarSearch{assembly: g}
}

// Search runs A* from root and returns the first goal state popped from
// the open set. When the queue empties without a goal it returns the
// last-popped state together with ErrNoPlan. The context is checked
// between pops; no cleanup is needed on cancellation because the search
// graph is discarded whole.
//
// No closed set is maintained: the search graph inherits acyclicity from
// the assembly DAG, so every state is reachable along exactly one path.
func (s *AStarSearch) Search(ctx context.Context, g *SearchGraph, root graph.NodeID, expander *NodeExpander) (graph.NodeID, error) {
	if _, err := expander.ExpandNode(root); err != nil {
		return 0, err
	}
	rootNode, _ := g.Node(root)
	rootNode.Data.HScore = s.hScore(&rootNode.Data)
	rootNode.Data.FScore = rootNode.Data.GScore + rootNode.Data.HScore

	open := &openSet{}
	heap.Init(open)
	open.push(root, rootNode.Data.FScore)

	current := root
	for open.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		current = open.pop()
		node, _ := g.Node(current)
		if s.isGoal(&node.Data) {
			return current, nil
		}
		node.Data.Marked = true

		out, _ := g.OutEdges(current)
		for _, eid := range out {
			edge, _ := g.Edge(eid)
			if _, err := expander.ExpandNode(edge.To); err != nil {
				return 0, err
			}
			child, _ := g.Node(edge.To)
			child.Data.GScore = node.Data.GScore + edge.Data.Cost
			child.Data.HScore = s.hScore(&child.Data)
			child.Data.FScore = child.Data.GScore + child.Data.HScore
			open.push(edge.To, child.Data.FScore)
		}
	}
	return current, ErrNoPlan
}

// isGoal reports whether no frontier subassembly has an action successor
// left in the assembly graph.
func (s *AStarSearch) isGoal(data *SearchData) bool {
	for _, id := range data.Subassemblies {
		if s.assembly.HasSuccessor(id) {
			return false
		}
	}
	return true
}

// hScore estimates the remaining cost as log2 of the longest frontier
// subassembly name (a rough depth estimate) times the cheapest action cost
// seen along the path.
func (s *AStarSearch) hScore(data *SearchData) float64 {
	maxLen := 0
	for name := range data.Subassemblies {
		if len(name) > maxLen {
			maxLen = len(name)
		}
	}
	return math.Log2(float64(maxLen)) * data.MinimumCostAction
}

// openSet is a min-heap over search states keyed by f-score, with ties
// broken by insertion order.
type openSet struct {
	items []openItem
	seq   int
}

type openItem struct {
	id     graph.NodeID
	fScore float64
	seq    int
}

func (o *openSet) Len() int { return len(o.items) }

func (o *openSet) Less(i, j int) bool {
	if o.items[i].fScore != o.items[j].fScore {
		return o.items[i].fScore < o.items[j].fScore
	}
	return o.items[i].seq < o.items[j].seq
}

func (o *openSet) Swap(i, j int) { o.items[i], o.items[j] = o.items[j], o.items[i] }

func (o *openSet) Push(x any) { o.items = append(o.items, x.(openItem)) }

func (o *openSet) Pop() any {
	last := o.items[len(o.items)-1]
	o.items = o.items[:len(o.items)-1]
	return last
}

func (o *openSet) push(id graph.NodeID, fScore float64) {
	heap.Push(o, openItem{id: id, fScore: fScore, seq: o.seq})
	o.seq++
}

func (o *openSet) pop() graph.NodeID {
	return heap.Pop(o).(openItem).id
}
