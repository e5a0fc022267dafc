package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrator handles database schema migrations. Migrations are compiled into
// the binary and tracked in a schema_migrations table so each one runs once.
type Migrator struct {
	pool *pgxpool.Pool
}

type migration struct {
	Name string
	SQL  string
}

// migrations run in slice order. Append only; never edit an applied entry.
var migrations = []migration{
	{
		Name: "001_create_users",
		SQL: `
			CREATE TABLE IF NOT EXISTS users (
				id SERIAL PRIMARY KEY,
				name TEXT NOT NULL,
				email TEXT UNIQUE NOT NULL,
				password_hash TEXT NOT NULL,
				role VARCHAR(20) NOT NULL DEFAULT 'operator',
				is_active BOOLEAN NOT NULL DEFAULT TRUE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
		`,
	},
	{
		Name: "002_create_products",
		SQL: `
			CREATE TABLE IF NOT EXISTS products (
				key VARCHAR(50) PRIMARY KEY,
				name TEXT NOT NULL,
				size_label TEXT NOT NULL DEFAULT '',
				default_unit_price NUMERIC(12,2) NOT NULL CHECK (default_unit_price > 0)
			);
		`,
	},
	{
		Name: "003_create_marts",
		SQL: `
			CREATE TABLE IF NOT EXISTS marts (
				id SERIAL PRIMARY KEY,
				name TEXT NOT NULL,
				mobile VARCHAR(10) NOT NULL,
				sector TEXT NOT NULL DEFAULT '',
				address TEXT NOT NULL DEFAULT '',
				onboarding_date DATE NOT NULL,
				commission_percent NUMERIC(5,2),
				stock JSONB NOT NULL DEFAULT '{}'::jsonb,
				price_overrides JSONB NOT NULL DEFAULT '{}'::jsonb,
				refills JSONB NOT NULL DEFAULT '[]'::jsonb,
				sales JSONB NOT NULL DEFAULT '[]'::jsonb,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_marts_mobile ON marts (mobile);
		`,
	},
	{
		Name: "004_seed_products",
		SQL: `
			INSERT INTO products (key, name, size_label, default_unit_price) VALUES
				('gir500',   'Gir Cow Ghee',     '500 ml', 900),
				('gir1000',  'Gir Cow Ghee',     '1 L',    1750),
				('honey350', 'Raw Forest Honey', '350 g',  450),
				('honey700', 'Raw Forest Honey', '700 g',  850),
				('amla500',  'Amla Juice',       '500 ml', 300),
				('murabba1', 'Amla Murabba',     '1 kg',   400)
			ON CONFLICT (key) DO NOTHING;
		`,
	},
}

// NewMigrator creates a new migration runner
func NewMigrator(pool *pgxpool.Pool) *Migrator {
	return &Migrator{
		pool: pool,
	}
}

// RunMigrations executes all pending migrations in order and records each
// successful one in the tracking table.
func (m *Migrator) RunMigrations(ctx context.Context) error {
	log.Println("Starting database migrations...")

	if err := m.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := m.getAppliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	migrationsRun := 0
	for _, mig := range migrations {
		if applied[mig.Name] {
			log.Printf("  ✓ Already applied: %s", mig.Name)
			continue
		}

		log.Printf("  → Running: %s", mig.Name)
		if _, err := m.pool.Exec(ctx, mig.SQL); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", mig.Name, err)
		}

		if err := m.recordMigration(ctx, mig.Name); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", mig.Name, err)
		}

		migrationsRun++
	}

	if migrationsRun > 0 {
		log.Printf("✓ Successfully ran %d new migration(s)", migrationsRun)
	} else {
		log.Println("✓ All migrations already applied - database is up to date")
	}

	return nil
}

func (m *Migrator) createMigrationsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			filename VARCHAR(255) UNIQUE NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := m.pool.Exec(ctx, query)
	return err
}

func (m *Migrator) getAppliedMigrations(ctx context.Context) (map[string]bool, error) {
	applied := make(map[string]bool)

	rows, err := m.pool.Query(ctx, "SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			return nil, err
		}
		applied[filename] = true
	}

	return applied, rows.Err()
}

func (m *Migrator) recordMigration(ctx context.Context, name string) error {
	query := `
		INSERT INTO schema_migrations (filename)
		VALUES ($1)
		ON CONFLICT (filename) DO NOTHING
	`

	_, err := m.pool.Exec(ctx, query, name)
	return err
}
