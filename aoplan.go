package aoplan

import "time"

// Assembly is a stored assembly description: the raw XML document that the
// planner consumes, keyed by name.
type Assembly struct {
	Name      string    `json:"name"`
	Document  []byte    `json:"document"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Plan is the result of one planning run over an assembly description.
type Plan struct {
	ID        string     `json:"id,omitempty"`
	Assembly  string     `json:"assembly"`
	Root      string     `json:"root"`
	TotalCost float64    `json:"total_cost"`
	Steps     []PlanStep `json:"steps"`
	CreatedAt time.Time  `json:"created_at,omitzero"`
}

// PlanStep is one transition of the plan: the set of agent/action pairs
// executed in parallel at a given depth, and the step's wall-clock cost
// (the maximum of the per-agent costs).
type PlanStep struct {
	Depth       int          `json:"depth"`
	Cost        float64      `json:"cost"`
	Assignments []Assignment `json:"assignments"`
}

// Assignment pairs an agent with the action it performs within a step.
// Interaction marks handoff actions that were scheduled to make a
// subassembly reachable for another agent.
type Assignment struct {
	Agent       string `json:"agent"`
	Action      string `json:"action"`
	Interaction bool   `json:"interaction,omitempty"`
}
