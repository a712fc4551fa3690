package aoplan

import (
	"fmt"
	"math"
)

// Agent is a worker (human or robot) that can be assigned assembly actions.
// Host and Port identify its controller endpoint; the planner itself never
// connects to it.
type Agent struct {
	Name string
	Host string
	Port string
}

// Action is a primitive assembly operation with a per-agent cost table.
// A cost of +Inf marks the action as unassignable for that agent.
type Action struct {
	Name  string
	Costs map[string]float64
}

// Reach describes whether an agent can act on a subassembly directly.
// When Reachable is false, Interaction names the action that must be
// performed alongside to make the subassembly reachable for the agent.
type Reach struct {
	Reachable   bool
	Interaction string
}

// Subassembly holds the per-agent reachability table of one OR node.
type Subassembly struct {
	Name         string
	Reachability map[string]Reach
}

// Configuration is the planner's view of the input: the agent roster plus
// the cost and reachability tables keyed by node name.
type Configuration struct {
	Agents        map[string]Agent
	Actions       map[string]Action
	Subassemblies map[string]Subassembly
}

// NewConfiguration returns an empty configuration with all maps allocated.
func NewConfiguration() *Configuration {
	return &Configuration{
		Agents:        make(map[string]Agent),
		Actions:       make(map[string]Action),
		Subassemblies: make(map[string]Subassembly),
	}
}

// Cost returns the cost of action for agent, or +Inf when no entry exists.
func (c *Configuration) Cost(action, agent string) float64 {
	a, ok := c.Actions[action]
	if !ok {
		return math.Inf(1)
	}
	cost, ok := a.Costs[agent]
	if !ok {
		return math.Inf(1)
	}
	return cost
}

// Validate checks that the configuration is complete: the roster is
// non-empty, every action carries a cost entry for every agent, and every
// subassembly carries a reachability entry for every agent.
func (c *Configuration) Validate() error {
	if len(c.Agents) == 0 {
		return fmt.Errorf("aoplan: no agents provided")
	}
	for name, sa := range c.Subassemblies {
		for agent := range c.Agents {
			if _, ok := sa.Reachability[agent]; !ok {
				return fmt.Errorf("aoplan: agent %q missing in reachability map of subassembly %q", agent, name)
			}
		}
	}
	for name, action := range c.Actions {
		for agent := range c.Agents {
			if _, ok := action.Costs[agent]; !ok {
				return fmt.Errorf("aoplan: cost of %q for agent %q is missing", name, agent)
			}
		}
	}
	return nil
}
