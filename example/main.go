package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/meikuraledutech/aoplan"
	"github.com/meikuraledutech/aoplan/assembly"
	"github.com/meikuraledutech/aoplan/planner"
	"github.com/meikuraledutech/aoplan/xmlio"
)

func main() {
	ctx := context.Background()

	// ── Build the AND/OR graph: a chair from legs and a seat ──────────
	f := assembly.NewFactory()
	f.InsertOr("chair")
	f.InsertAnd("attach-legs")
	f.InsertAnd("attach-back")
	f.InsertOr("frame")
	f.InsertOr("seat")
	f.InsertEdge("chair", "attach-legs")
	f.InsertEdge("chair", "attach-back")
	f.InsertEdge("attach-legs", "frame")
	f.InsertEdge("attach-legs", "seat")
	f.InsertEdge("attach-back", "frame")
	f.SetRoot("chair")

	// ── Agent roster, costs and reachability ──────────────────────────
	cfg := aoplan.NewConfiguration()
	cfg.Agents["robot"] = aoplan.Agent{Name: "robot", Host: "10.0.0.5", Port: "5555"}
	cfg.Agents["human"] = aoplan.Agent{Name: "human", Host: "localhost", Port: "5556"}
	cfg.Actions["attach-legs"] = aoplan.Action{
		Name:  "attach-legs",
		Costs: map[string]float64{"robot": 4, "human": 7},
	}
	cfg.Actions["attach-back"] = aoplan.Action{
		Name:  "attach-back",
		Costs: map[string]float64{"robot": math.Inf(1), "human": 6},
	}
	for _, name := range []string{"chair", "frame", "seat"} {
		cfg.Subassemblies[name] = aoplan.Subassembly{
			Name: name,
			Reachability: map[string]aoplan.Reach{
				"robot": {Reachable: true},
				"human": {Reachable: true},
			},
		}
	}

	g := f.Graph()
	root, _ := f.Root()
	if err := assembly.Validate(g, root, cfg); err != nil {
		log.Fatalf("validate: %v", err)
	}

	// ── Plan ──────────────────────────────────────────────────────────
	plan, err := planner.New(g, root, cfg).Plan(ctx)
	if err != nil {
		log.Fatalf("plan: %v", err)
	}

	fmt.Printf("plan for %q, total cost %.1f:\n", plan.Root, plan.TotalCost)
	printJSON(plan.Steps)

	// ── Write the planned graph as XML ────────────────────────────────
	fmt.Println("\nplanned graph:")
	if err := xmlio.WritePlan(os.Stdout, g, plan.Root); err != nil {
		log.Fatalf("write: %v", err)
	}
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
