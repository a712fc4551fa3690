package planner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meikuraledutech/aoplan"
	"github.com/meikuraledutech/aoplan/assembly"
	"github.com/meikuraledutech/aoplan/graph"
)

// twoPartFixture: root state with frontier {s0, s1}, s0 -> a0 -> {t0},
// s1 -> a1 -> {t1}, two agents with asymmetric costs.
func twoPartFixture(t *testing.T) (*assembly.Graph, *aoplan.Configuration, map[string]graph.NodeID) {
	t.Helper()
	f := assembly.NewFactory()
	ids := map[string]graph.NodeID{
		"s0": f.InsertOr("s0"),
		"s1": f.InsertOr("s1"),
		"a0": f.InsertAnd("a0"),
		"a1": f.InsertAnd("a1"),
		"t0": f.InsertOr("t0"),
		"t1": f.InsertOr("t1"),
	}
	require.True(t, f.InsertEdge("s0", "a0"))
	require.True(t, f.InsertEdge("s1", "a1"))
	require.True(t, f.InsertEdge("a0", "t0"))
	require.True(t, f.InsertEdge("a1", "t1"))

	cfg := aoplan.NewConfiguration()
	cfg.Agents["x"] = aoplan.Agent{Name: "x"}
	cfg.Agents["y"] = aoplan.Agent{Name: "y"}
	cfg.Actions["a0"] = aoplan.Action{Name: "a0", Costs: map[string]float64{"x": 2, "y": 5}}
	cfg.Actions["a1"] = aoplan.Action{Name: "a1", Costs: map[string]float64{"x": 5, "y": 3}}
	for _, s := range []string{"s0", "s1", "t0", "t1"} {
		cfg.Subassemblies[s] = aoplan.Subassembly{Name: s, Reachability: map[string]aoplan.Reach{
			"x": {Reachable: true},
			"y": {Reachable: true},
		}}
	}
	return f.Graph(), cfg, ids
}

func newState(search *SearchGraph, subs map[string]graph.NodeID) graph.NodeID {
	return search.InsertNode(SearchData{
		MinimumCostAction: math.MaxFloat64,
		Subassemblies:     subs,
		Actions:           map[string]graph.NodeID{},
	})
}

func TestExpandNodeChildren(t *testing.T) {
	ag, cfg, ids := twoPartFixture(t)
	search := graph.New[SearchData, EdgeData]()
	root := newState(search, map[string]graph.NodeID{"s0": ids["s0"], "s1": ids["s1"]})

	expander := NewNodeExpander(ag, cfg, search)
	out, err := expander.ExpandNode(root)
	require.NoError(t, err)

	// Frontier of 2 with branching 1 and 2 agents:
	// k=1: 2 agents * 2 positions = 4, k=2: 2 injections.
	assert.Len(t, out, 6)

	rootNode, _ := search.Node(root)
	assert.Equal(t, map[string]graph.NodeID{"a0": ids["a0"], "a1": ids["a1"]}, rootNode.Data.Actions)

	for _, eid := range out {
		edge, _ := search.Edge(eid)
		child, _ := search.Node(edge.To)

		// Edge cost is the maximum of the chosen costs, the child's
		// minimum tracks the cheapest one.
		maxCost, minCost := 0.0, math.MaxFloat64
		for _, triple := range edge.Data.Assignments {
			cost := cfg.Cost(triple.Action, triple.Agent)
			maxCost = math.Max(maxCost, cost)
			minCost = math.Min(minCost, cost)
		}
		assert.Equal(t, maxCost, edge.Data.Cost)
		assert.Equal(t, minCost, child.Data.MinimumCostAction)

		// Child frontier: parent minus consumed plus produced.
		want := map[string]graph.NodeID{"s0": ids["s0"], "s1": ids["s1"]}
		for _, triple := range edge.Data.Assignments {
			switch triple.Action {
			case "a0":
				delete(want, "s0")
				want["t0"] = ids["t0"]
			case "a1":
				delete(want, "s1")
				want["t1"] = ids["t1"]
			}
		}
		assert.Equal(t, want, child.Data.Subassemblies)
	}
}

func TestExpandNodeRejectsInfiniteCost(t *testing.T) {
	ag, cfg, ids := twoPartFixture(t)
	cfg.Actions["a0"] = aoplan.Action{Name: "a0", Costs: map[string]float64{"x": math.Inf(1), "y": 5}}

	search := graph.New[SearchData, EdgeData]()
	root := newState(search, map[string]graph.NodeID{"s0": ids["s0"], "s1": ids["s1"]})

	out, err := NewNodeExpander(ag, cfg, search).ExpandNode(root)
	require.NoError(t, err)

	for _, eid := range out {
		edge, _ := search.Edge(eid)
		for _, triple := range edge.Data.Assignments {
			if triple.Agent == "x" {
				assert.NotEqual(t, "a0", triple.Action, "x must not be assigned the infinite-cost action")
			}
		}
	}
}

func TestExpandNodeReachabilityFilter(t *testing.T) {
	ag, cfg, ids := twoPartFixture(t)
	// x cannot reach s0; the required interaction is a1.
	cfg.Subassemblies["s0"] = aoplan.Subassembly{Name: "s0", Reachability: map[string]aoplan.Reach{
		"x": {Reachable: false, Interaction: "a1"},
		"y": {Reachable: true},
	}}

	search := graph.New[SearchData, EdgeData]()
	root := newState(search, map[string]graph.NodeID{"s0": ids["s0"], "s1": ids["s1"]})

	out, err := NewNodeExpander(ag, cfg, search).ExpandNode(root)
	require.NoError(t, err)

	for _, eid := range out {
		edge, _ := search.Edge(eid)
		for _, triple := range edge.Data.Assignments {
			if triple.Agent == "x" && triple.Action == "a0" {
				// Only legal when y performs a1 in the same step.
				require.Len(t, edge.Data.Assignments, 2)
				assert.True(t, performsAction(edge.Data.Assignments, "a1", "x"))
			}
		}
	}
}

func TestExpandNodeDeadEndHasNoChildren(t *testing.T) {
	f := assembly.NewFactory()
	sid := f.InsertOr("alone")

	cfg := aoplan.NewConfiguration()
	cfg.Agents["x"] = aoplan.Agent{Name: "x"}
	cfg.Subassemblies["alone"] = aoplan.Subassembly{Name: "alone", Reachability: map[string]aoplan.Reach{"x": {Reachable: true}}}

	search := graph.New[SearchData, EdgeData]()
	root := newState(search, map[string]graph.NodeID{"alone": sid})

	out, err := NewNodeExpander(f.Graph(), cfg, search).ExpandNode(root)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestExpandNodeUnknownState(t *testing.T) {
	ag, cfg, _ := twoPartFixture(t)
	search := graph.New[SearchData, EdgeData]()
	_, err := NewNodeExpander(ag, cfg, search).ExpandNode(42)
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)
}
