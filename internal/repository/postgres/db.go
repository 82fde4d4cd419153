package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/jwalitptl/dental-admin/internal/config"
)

func NewDB(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		username      VARCHAR(80)  NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		name          VARCHAR(120) NOT NULL DEFAULT '',
		role          VARCHAR(50)  NOT NULL DEFAULT 'staff' CHECK (role IN ('admin', 'staff')),
		created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS patients (
		id         BIGSERIAL PRIMARY KEY,
		name       VARCHAR(120) NOT NULL CHECK (btrim(name) <> ''),
		email      VARCHAR(120) NOT NULL DEFAULT '',
		phone      VARCHAR(50)  NOT NULL DEFAULT '',
		notes      TEXT         NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_patients_email ON patients (lower(email))`,
	`CREATE TABLE IF NOT EXISTS appointments (
		id         BIGSERIAL PRIMARY KEY,
		patient_id BIGINT       NOT NULL REFERENCES patients (id),
		date_time  VARCHAR(80)  NOT NULL,
		service    VARCHAR(120) NOT NULL,
		dentist    VARCHAR(120) NOT NULL DEFAULT '',
		notes      VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_patient_id ON appointments (patient_id)`,
	`CREATE TABLE IF NOT EXISTS treatments (
		id          BIGSERIAL PRIMARY KEY,
		patient_id  BIGINT REFERENCES patients (id),
		name        VARCHAR(120)     NOT NULL,
		description TEXT             NOT NULL DEFAULT '',
		price       DOUBLE PRECISION NOT NULL CHECK (price >= 0),
		date        TIMESTAMPTZ      NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_treatments_patient_id ON treatments (patient_id)`,
	`CREATE TABLE IF NOT EXISTS invoices (
		id           BIGSERIAL PRIMARY KEY,
		patient_name VARCHAR(120)     NOT NULL,
		amount       DOUBLE PRECISION NOT NULL,
		description  VARCHAR(255)     NOT NULL DEFAULT '',
		status       VARCHAR(50)      NOT NULL DEFAULT 'Unpaid' CHECK (status IN ('Unpaid', 'Paid')),
		created_at   TIMESTAMPTZ      NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_patient_name ON invoices (patient_name)`,
}

// Migrate creates any missing tables and indexes. It is safe to run on every
// startup.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
