package planner

import (
	"sort"

	"github.com/meikuraledutech/aoplan"
	"github.com/meikuraledutech/aoplan/assembly"
	"github.com/meikuraledutech/aoplan/graph"
)

type actionChoice struct {
	name string
	node graph.NodeID
}

// Combinator enumerates every legal (agent-subset, action-choice,
// permutation) assignment over the AND-frontier of a set of subassemblies.
//
// The intermediate buffers are kept on the struct and reused across
// invocations to amortise allocation; callers must copy any assignment
// they retain past the next GenerateAgentActionAssignments call.
type Combinator struct {
	cfg    *aoplan.Configuration
	roster []string

	actionCombos [][]actionChoice
	actionSet    []actionChoice

	agentCombos [][]string
	agentSet    []string

	assignments [][]AgentActionAssignment
}

// NewCombinator builds a combinator over the configuration's roster.
// Agents are ordered by name; that order is the canonical order within
// every emitted agent subset.
func NewCombinator(cfg *aoplan.Configuration) *Combinator {
	roster := make([]string, 0, len(cfg.Agents))
	for name := range cfg.Agents {
		roster = append(roster, name)
	}
	sort.Strings(roster)
	return &Combinator{cfg: cfg, roster: roster}
}

// GenerateAgentActionAssignments enumerates all assignments for the given
// frontier subassemblies. For every tuple choosing one successor action per
// frontier node and every agent subset of size k (1 <= k <= min(|frontier|,
// |roster|)), it emits every injection of the subset into the tuple's
// positions. If any frontier node has no successor actions the frontier is
// a dead end and no assignments are emitted.
//
// The returned slices are owned by the combinator and valid until the next
// call.
func (c *Combinator) GenerateAgentActionAssignments(g *assembly.Graph, frontier []graph.NodeID) [][]AgentActionAssignment {
	c.assignments = c.assignments[:0]

	if !c.generateActionCombinationSets(g, frontier) {
		return c.assignments
	}

	l := min(len(frontier), len(c.roster))
	for k := 1; k <= l; k++ {
		c.generateAgentCombinationSets(k)
		for _, agents := range c.agentCombos {
			for _, actions := range c.actionCombos {
				c.assignAgentsToActions(agents, actions)
			}
		}
	}
	return c.assignments
}

// generateActionCombinationSets walks the Cartesian product of the
// successor-action lists in odometer order: the rightmost index advances
// first. Reports false when some frontier node has no successors.
func (c *Combinator) generateActionCombinationSets(g *assembly.Graph, frontier []graph.NodeID) bool {
	c.actionCombos = c.actionCombos[:0]

	n := len(frontier)
	if n == 0 {
		return false
	}
	successors := make([][]graph.NodeID, n)
	for i, id := range frontier {
		succ, ok := g.SuccessorNodes(id)
		if !ok || len(succ) == 0 {
			return false
		}
		successors[i] = succ
	}

	indices := make([]int, n)
	for {
		c.actionSet = c.actionSet[:0]
		for i := 0; i < n; i++ {
			id := successors[i][indices[i]]
			node, _ := g.Node(id)
			c.actionSet = append(c.actionSet, actionChoice{name: node.Data.Name, node: id})
		}
		c.actionCombos = append(c.actionCombos, append([]actionChoice(nil), c.actionSet...))

		// Advance the rightmost index that still has elements left.
		next := n - 1
		for next >= 0 && indices[next]+1 >= len(successors[next]) {
			next--
		}
		if next < 0 {
			break
		}
		indices[next]++
		for i := next + 1; i < n; i++ {
			indices[i] = 0
		}
	}
	return true
}

// generateAgentCombinationSets fills agentCombos with every size-k subset
// of the roster, each subset in roster order.
func (c *Combinator) generateAgentCombinationSets(k int) {
	c.agentCombos = c.agentCombos[:0]

	n := len(c.roster)
	selector := make([]int, k)
	for i := range selector {
		selector[i] = i
	}
	for {
		c.agentSet = c.agentSet[:0]
		for _, i := range selector {
			c.agentSet = append(c.agentSet, c.roster[i])
		}
		c.agentCombos = append(c.agentCombos, append([]string(nil), c.agentSet...))

		// Advance to the next combination.
		i := k - 1
		for i >= 0 && selector[i] == n-k+i {
			i--
		}
		if i < 0 {
			break
		}
		selector[i]++
		for j := i + 1; j < k; j++ {
			selector[j] = selector[j-1] + 1
		}
	}
}

// assignAgentsToActions emits every injection of the agent subset into the
// action tuple. The selector vector d runs through its permutations; after
// each emission the tail beyond the first k positions is reversed so that
// the next permutation advances the k-prefix, yielding each distinct
// prefix exactly once.
func (c *Combinator) assignAgentsToActions(agents []string, actions []actionChoice) {
	n := len(actions)
	k := len(agents)

	d := make([]int, n)
	for i := range d {
		d[i] = i
	}
	for {
		assignment := make([]AgentActionAssignment, 0, k)
		for i := 0; i < k; i++ {
			choice := actions[d[i]]
			assignment = append(assignment, AgentActionAssignment{
				Agent:      agents[i],
				Action:     choice.name,
				ActionNode: choice.node,
			})
		}
		c.assignments = append(c.assignments, assignment)

		reverseInts(d[k:])
		if !nextPermutation(d) {
			break
		}
	}
}

// nextPermutation rearranges d into the lexicographically next permutation,
// reporting false (and leaving d sorted ascending) after the last one.
func nextPermutation(d []int) bool {
	i := len(d) - 2
	for i >= 0 && d[i] >= d[i+1] {
		i--
	}
	if i < 0 {
		reverseInts(d)
		return false
	}
	j := len(d) - 1
	for d[j] <= d[i] {
		j--
	}
	d[i], d[j] = d[j], d[i]
	reverseInts(d[i+1:])
	return true
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
