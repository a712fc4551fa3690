package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/meikuraledutech/aoplan/dot"
	"github.com/meikuraledutech/aoplan/planner"
	"github.com/meikuraledutech/aoplan/xmlio"
)

var (
	planInput  string
	planOutput string
	planDot    string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute a minimum-cost assembly plan",
	Long: `Reads an assembly description, searches for the cheapest multi-agent
plan and writes the planned graph.

Examples:
  planner plan --input assembly.xml --output plan.xml
  planner plan --input assembly.xml --output plan.xml --dot plan.dot`,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, root, cfg, err := xmlio.ReadFile(planInput)
		if err != nil {
			return err
		}

		p, err := planner.New(g, root, cfg).Plan(cmd.Context())
		if errors.Is(err, planner.ErrNoPlan) {
			return fmt.Errorf("no plan exists for %s", planInput)
		}
		if err != nil {
			return err
		}

		if err := xmlio.WritePlanFile(planOutput, g, p.Root); err != nil {
			return err
		}
		if planDot != "" {
			if err := dot.WriteFile(planDot, g, p.Root); err != nil {
				return err
			}
		}

		slog.Info("plan written", "output", planOutput,
			"steps", len(p.Steps), "total_cost", p.TotalCost)
		return nil
	},
}

func init() {
	planCmd.Flags().StringVar(&planInput, "input", "", "assembly description XML (required)")
	planCmd.Flags().StringVar(&planOutput, "output", "", "planned graph XML (required)")
	planCmd.Flags().StringVar(&planDot, "dot", "", "optional DOT visualisation file")
	planCmd.MarkFlagRequired("input")
	planCmd.MarkFlagRequired("output")
}
