package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/meikuraledutech/aoplan"
)

// SavePlan inserts a computed plan. If p.ID is empty, a UUID is
// auto-generated. Returns the plan ID (generated or provided).
func (s *PGStore) SavePlan(ctx context.Context, p *aoplan.Plan) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	steps, err := json.Marshal(p.Steps)
	if err != nil {
		return "", fmt.Errorf("aoplan: marshal steps: %w", err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO plans (id, assembly, root, total_cost, steps) VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Assembly, p.Root, p.TotalCost, steps,
	)
	if err != nil {
		return "", fmt.Errorf("aoplan: insert plan: %w", err)
	}

	return p.ID, nil
}

// GetPlan fetches a single plan by its ID.
// Returns ErrPlanNotFound if it doesn't exist.
func (s *PGStore) GetPlan(ctx context.Context, planID string) (*aoplan.Plan, error) {
	var (
		p     aoplan.Plan
		steps []byte
	)
	err := s.db.QueryRow(ctx,
		`SELECT id, assembly, root, total_cost, steps, created_at FROM plans WHERE id = $1`, planID,
	).Scan(&p.ID, &p.Assembly, &p.Root, &p.TotalCost, &steps, &p.CreatedAt)

	if err != nil {
		if isNoRows(err) {
			return nil, aoplan.ErrPlanNotFound
		}
		return nil, fmt.Errorf("aoplan: get plan: %w", err)
	}

	if err := json.Unmarshal(steps, &p.Steps); err != nil {
		return nil, fmt.Errorf("aoplan: unmarshal steps: %w", err)
	}

	return &p, nil
}

// ListPlans returns all plans for an assembly, ordered by created_at.
// With an empty assembly name it returns every stored plan.
// Returns an empty slice (not nil) if none found.
func (s *PGStore) ListPlans(ctx context.Context, assembly string) ([]aoplan.Plan, error) {
	query := `SELECT id, assembly, root, total_cost, steps, created_at FROM plans ORDER BY created_at`
	args := []any{}
	if assembly != "" {
		query = `SELECT id, assembly, root, total_cost, steps, created_at FROM plans WHERE assembly = $1 ORDER BY created_at`
		args = append(args, assembly)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("aoplan: list plans: %w", err)
	}
	defer rows.Close()

	plans := []aoplan.Plan{}
	for rows.Next() {
		var (
			p     aoplan.Plan
			steps []byte
		)
		if err := rows.Scan(&p.ID, &p.Assembly, &p.Root, &p.TotalCost, &steps, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("aoplan: scan plan: %w", err)
		}
		if err := json.Unmarshal(steps, &p.Steps); err != nil {
			return nil, fmt.Errorf("aoplan: unmarshal steps: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("aoplan: rows plans: %w", err)
	}

	return plans, nil
}

// DeletePlan deletes a plan by its ID.
// No error if the plan doesn't exist.
func (s *PGStore) DeletePlan(ctx context.Context, planID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM plans WHERE id = $1`, planID)
	if err != nil {
		return fmt.Errorf("aoplan: delete plan: %w", err)
	}
	return nil
}
