package postgres

import (
	"context"
	"fmt"

	"github.com/meikuraledutech/aoplan"
)

// SaveAssembly upserts an assembly document under its name.
func (s *PGStore) SaveAssembly(ctx context.Context, a *aoplan.Assembly) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO assemblies (name, document) VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET document = EXCLUDED.document`,
		a.Name, a.Document,
	)
	if err != nil {
		return fmt.Errorf("aoplan: save assembly %s: %w", a.Name, err)
	}
	return nil
}

// GetAssembly fetches an assembly document by name.
// Returns ErrAssemblyNotFound if it doesn't exist.
func (s *PGStore) GetAssembly(ctx context.Context, name string) (*aoplan.Assembly, error) {
	var a aoplan.Assembly
	err := s.db.QueryRow(ctx,
		`SELECT name, document, created_at FROM assemblies WHERE name = $1`, name,
	).Scan(&a.Name, &a.Document, &a.CreatedAt)

	if err != nil {
		if isNoRows(err) {
			return nil, aoplan.ErrAssemblyNotFound
		}
		return nil, fmt.Errorf("aoplan: get assembly: %w", err)
	}

	return &a, nil
}

// ListAssemblies returns all stored assemblies, ordered by created_at.
// Returns an empty slice (not nil) if none found.
func (s *PGStore) ListAssemblies(ctx context.Context) ([]aoplan.Assembly, error) {
	rows, err := s.db.Query(ctx,
		`SELECT name, document, created_at FROM assemblies ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("aoplan: list assemblies: %w", err)
	}
	defer rows.Close()

	assemblies := []aoplan.Assembly{}
	for rows.Next() {
		var a aoplan.Assembly
		if err := rows.Scan(&a.Name, &a.Document, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("aoplan: scan assembly: %w", err)
		}
		assemblies = append(assemblies, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("aoplan: rows assemblies: %w", err)
	}

	return assemblies, nil
}

// DeleteAssembly removes an assembly and, via cascade, its plans.
// No error if the assembly doesn't exist.
func (s *PGStore) DeleteAssembly(ctx context.Context, name string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM assemblies WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("aoplan: delete assembly: %w", err)
	}
	return nil
}
