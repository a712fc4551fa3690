package postgres

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS assemblies (
    name       TEXT PRIMARY KEY,
    document   BYTEA NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS plans (
    id         TEXT PRIMARY KEY,
    assembly   TEXT NOT NULL REFERENCES assemblies(name) ON DELETE CASCADE,
    root       TEXT NOT NULL,
    total_cost DOUBLE PRECISION NOT NULL,
    steps      JSONB NOT NULL DEFAULT '[]',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_plans_assembly ON plans(assembly);
`

// CreateSchema creates the assemblies and plans tables if they don't exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops the plans and assemblies tables.
func (s *PGStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS plans, assemblies CASCADE;`)
	return err
}
