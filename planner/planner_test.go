package planner

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meikuraledutech/aoplan"
	"github.com/meikuraledutech/aoplan/assembly"
)

type fixture struct {
	factory *assembly.Factory
	cfg     *aoplan.Configuration
}

func newFixture(agents ...string) *fixture {
	cfg := aoplan.NewConfiguration()
	for _, a := range agents {
		cfg.Agents[a] = aoplan.Agent{Name: a}
	}
	return &fixture{factory: assembly.NewFactory(), cfg: cfg}
}

func (fx *fixture) or(name string) *fixture {
	fx.factory.InsertOr(name)
	reach := make(map[string]aoplan.Reach)
	for a := range fx.cfg.Agents {
		reach[a] = aoplan.Reach{Reachable: true}
	}
	fx.cfg.Subassemblies[name] = aoplan.Subassembly{Name: name, Reachability: reach}
	return fx
}

func (fx *fixture) and(name string, costs map[string]float64) *fixture {
	fx.factory.InsertAnd(name)
	fx.cfg.Actions[name] = aoplan.Action{Name: name, Costs: costs}
	return fx
}

func (fx *fixture) edge(from, to string) *fixture {
	if !fx.factory.InsertEdge(from, to) {
		panic("unknown edge endpoint " + from + " -> " + to)
	}
	return fx
}

func (fx *fixture) unreachable(sub, agent, interaction string) *fixture {
	sa := fx.cfg.Subassemblies[sub]
	sa.Reachability[agent] = aoplan.Reach{Reachable: false, Interaction: interaction}
	return fx
}

func (fx *fixture) planner(t *testing.T, root string) *Planner {
	t.Helper()
	require.True(t, fx.factory.SetRoot(root))
	id, _ := fx.factory.Root()
	g := fx.factory.Graph()
	require.NoError(t, fx.cfg.Validate())
	require.NoError(t, assembly.Validate(g, id, fx.cfg))
	return New(g, id, fx.cfg)
}

func TestPlanTrivial(t *testing.T) {
	fx := newFixture("A").
		or("root").
		and("a1", map[string]float64{"A": 1}).
		or("t1").or("t2").
		edge("root", "a1").
		edge("a1", "t1").
		edge("a1", "t2")

	plan, err := fx.planner(t, "root").Plan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1.0, plan.TotalCost)
	require.Len(t, plan.Steps, 1)
	require.Len(t, plan.Steps[0].Assignments, 1)
	assert.Equal(t, aoplan.Assignment{Agent: "A", Action: "a1"}, plan.Steps[0].Assignments[0])
}

func TestPlanParallelTwoActions(t *testing.T) {
	fx := newFixture("A", "B").
		or("root").
		and("a0", map[string]float64{"A": 1, "B": 1}).
		or("s1").or("s2").
		and("a1", map[string]float64{"A": 2, "B": 5}).
		and("a2", map[string]float64{"A": 5, "B": 2}).
		or("t1").or("t2").
		edge("root", "a0").
		edge("a0", "s1").edge("a0", "s2").
		edge("s1", "a1").edge("s2", "a2").
		edge("a1", "t1").edge("a2", "t2")

	plan, err := fx.planner(t, "root").Plan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3.0, plan.TotalCost)
	require.Len(t, plan.Steps, 2)

	last := plan.Steps[1]
	assert.Equal(t, 2.0, last.Cost)
	require.Len(t, last.Assignments, 2)
	byAgent := map[string]string{}
	for _, a := range last.Assignments {
		byAgent[a.Agent] = a.Action
	}
	assert.Equal(t, map[string]string{"A": "a1", "B": "a2"}, byAgent)
}

func TestPlanInteractionHandoff(t *testing.T) {
	inf := math.Inf(1)
	fx := newFixture("H", "R").
		or("root").
		and("start", map[string]float64{"H": 1, "R": 1}).
		or("s").or("u").
		and("consume", map[string]float64{"H": 1, "R": inf}).
		and("handoff", map[string]float64{"H": inf, "R": 1}).
		or("ts").or("tu").
		edge("root", "start").
		edge("start", "s").edge("start", "u").
		edge("s", "consume").edge("u", "handoff").
		edge("consume", "ts").edge("handoff", "tu").
		unreachable("s", "H", "handoff")

	p := fx.planner(t, "root")
	plan, err := p.Plan(context.Background())
	require.NoError(t, err)

	require.Len(t, plan.Steps, 2)
	last := plan.Steps[1]
	byAction := map[string]aoplan.Assignment{}
	for _, a := range last.Assignments {
		byAction[a.Action] = a
	}
	require.Contains(t, byAction, "consume")
	require.Contains(t, byAction, "handoff")
	assert.Equal(t, "H", byAction["consume"].Agent)
	assert.Equal(t, "R", byAction["handoff"].Agent)
	assert.True(t, byAction["handoff"].Interaction, "handoff should be marked as an interaction")
	assert.Equal(t, 2.0, plan.TotalCost)

	// The assembler re-tags the handoff node and links it from the
	// consuming action.
	g := fx.factory.Graph()
	handoffID, _ := fx.factory.NodeID("handoff")
	handoffNode, _ := g.Node(handoffID)
	assert.Equal(t, assembly.KindInteraction, handoffNode.Data.Kind)
	assert.Equal(t, "R", handoffNode.Data.AssignedAgent)

	consumeID, _ := fx.factory.NodeID("consume")
	consumeNode, _ := g.Node(consumeID)
	sID, _ := fx.factory.NodeID("s")
	assert.Equal(t, sID, consumeNode.Data.InteractionPrev)
	assert.Equal(t, handoffID, consumeNode.Data.InteractionAlt)
}

func TestPlanRoutesAroundInfiniteCost(t *testing.T) {
	fx := newFixture("A").
		or("root").
		and("a1", map[string]float64{"A": math.Inf(1)}).
		and("a2", map[string]float64{"A": 5}).
		or("t").
		edge("root", "a1").
		edge("root", "a2").
		edge("a1", "t").
		edge("a2", "t")

	plan, err := fx.planner(t, "root").Plan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5.0, plan.TotalCost)
	require.Len(t, plan.Steps, 1)
	assert.Equal(t, "a2", plan.Steps[0].Assignments[0].Action)
}

func TestPlanNoPlan(t *testing.T) {
	fx := newFixture("A").
		or("root").
		and("a1", map[string]float64{"A": math.Inf(1)}).
		or("t").
		edge("root", "a1").
		edge("a1", "t")

	_, err := fx.planner(t, "root").Plan(context.Background())
	assert.ErrorIs(t, err, ErrNoPlan)
}

func TestPlanWritesAssignedAgents(t *testing.T) {
	fx := newFixture("A").
		or("root").
		and("a1", map[string]float64{"A": 1}).
		or("t").
		edge("root", "a1").
		edge("a1", "t")

	_, err := fx.planner(t, "root").Plan(context.Background())
	require.NoError(t, err)

	id, _ := fx.factory.NodeID("a1")
	node, _ := fx.factory.Graph().Node(id)
	assert.Equal(t, "A", node.Data.AssignedAgent)
}

func TestPlanCancellation(t *testing.T) {
	fx := newFixture("A").
		or("root").
		and("a1", map[string]float64{"A": 1}).
		or("t").
		edge("root", "a1").
		edge("a1", "t")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := fx.planner(t, "root").Plan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestPlanOptimalAmongGoals: two alternative decompositions of the root,
// the deeper one is cheaper in total. The search must return the cheaper
// goal even though it takes more steps.
func TestPlanOptimalAmongGoals(t *testing.T) {
	fx := newFixture("A").
		or("root").
		and("direct", map[string]float64{"A": 10}).
		and("split", map[string]float64{"A": 1}).
		or("t").or("mid").
		and("finish", map[string]float64{"A": 2}).
		or("tm").
		edge("root", "direct").
		edge("root", "split").
		edge("direct", "t").
		edge("split", "mid").
		edge("mid", "finish").
		edge("finish", "tm")

	plan, err := fx.planner(t, "root").Plan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3.0, plan.TotalCost)
	require.Len(t, plan.Steps, 2)
	assert.Equal(t, "split", plan.Steps[0].Assignments[0].Action)
	assert.Equal(t, "finish", plan.Steps[1].Assignments[0].Action)
}
