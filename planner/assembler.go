package planner

import (
	"github.com/meikuraledutech/aoplan"
	"github.com/meikuraledutech/aoplan/assembly"
	"github.com/meikuraledutech/aoplan/graph"
)

// assemblePlan walks the goal state back to the root and turns the edge
// assignments into an ordered plan. It also writes the chosen agent into
// every planned action node and re-tags handoff actions as interactions,
// recording the (subassembly, interaction, successor) link on the
// consuming action for the writers.
func assemblePlan(search *SearchGraph, goal graph.NodeID, ag *assembly.Graph, cfg *aoplan.Configuration, rootName string) *aoplan.Plan {
	goalNode, _ := search.Node(goal)

	// Trace predecessor edges up to the root. Every search node has at
	// most one incoming edge.
	var path []*graph.Edge[EdgeData]
	cur := goal
	for {
		in, _ := search.InEdges(cur)
		if len(in) == 0 {
			break
		}
		edge, _ := search.Edge(in[0])
		path = append(path, edge)
		cur = edge.From
	}
	// path was collected goal-first; reverse to root-first order.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	plan := &aoplan.Plan{
		Assembly:  rootName,
		Root:      rootName,
		TotalCost: goalNode.Data.GScore,
	}

	for depth, edge := range path {
		parent, _ := search.Node(edge.From)
		providers := markHandoffs(ag, cfg, &parent.Data, edge.Data.Assignments)

		step := aoplan.PlanStep{Depth: depth, Cost: edge.Data.Cost}
		for _, t := range edge.Data.Assignments {
			node, _ := ag.Node(t.ActionNode)
			node.Data.AssignedAgent = t.Agent
			step.Assignments = append(step.Assignments, aoplan.Assignment{
				Agent:       t.Agent,
				Action:      t.Action,
				Interaction: providers[t.ActionNode],
			})
		}
		plan.Steps = append(plan.Steps, step)
	}
	return plan
}

// markHandoffs finds the triples that served as reachability handoffs in
// one assignment. For every consumed subassembly its acting agent cannot
// reach, the triple performing the required interaction is re-tagged as an
// INTERACTION node and linked from the consuming action. Returns the set
// of provider action nodes.
func markHandoffs(ag *assembly.Graph, cfg *aoplan.Configuration, parent *SearchData, assignments []AgentActionAssignment) map[graph.NodeID]bool {
	providers := make(map[graph.NodeID]bool)

	for _, t := range assignments {
		preds, _ := ag.PredecessorNodes(t.ActionNode)
		for _, pid := range preds {
			pn, _ := ag.Node(pid)
			sid, ok := parent.Subassemblies[pn.Data.Name]
			if !ok || sid != pid {
				continue
			}
			reach := cfg.Subassemblies[pn.Data.Name].Reachability[t.Agent]
			if reach.Reachable {
				continue
			}
			for _, p := range assignments {
				if p.Action != reach.Interaction || p.Agent == t.Agent {
					continue
				}
				providers[p.ActionNode] = true

				provider, _ := ag.Node(p.ActionNode)
				provider.Data.Kind = assembly.KindInteraction

				consumer, _ := ag.Node(t.ActionNode)
				consumer.Data.InteractionPrev = pid
				consumer.Data.InteractionAlt = p.ActionNode
				if succ, _ := ag.SuccessorNodes(t.ActionNode); len(succ) > 0 {
					consumer.Data.InteractionNext = succ[0]
				}
				break
			}
		}
	}
	return providers
}
