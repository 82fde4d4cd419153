package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/dental-admin/internal/model"
)

type patientRepository struct {
	q sqlx.ExtContext
}

const patientColumns = `id, name, email, phone, notes, created_at`

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (name, email, phone, notes, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	patient.CreatedAt = time.Now().UTC()

	err := r.q.QueryRowxContext(ctx, query,
		patient.Name,
		patient.Email,
		patient.Phone,
		patient.Notes,
		patient.CreatedAt,
	).Scan(&patient.ID)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id int64) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`

	var patient model.Patient
	if err := sqlx.GetContext(ctx, r.q, &patient, query, id); err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", notFound(err))
	}
	return &patient, nil
}

// GetByEmail returns the oldest patient with the email, ignoring case.
func (r *patientRepository) GetByEmail(ctx context.Context, email string) (*model.Patient, error) {
	query := `
		SELECT ` + patientColumns + `
		FROM patients
		WHERE lower(email) = lower($1)
		ORDER BY id ASC
		LIMIT 1
	`
	var patient model.Patient
	if err := sqlx.GetContext(ctx, r.q, &patient, query, email); err != nil {
		return nil, fmt.Errorf("failed to get patient by email: %w", notFound(err))
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `UPDATE patients SET name = $1, email = $2, phone = $3, notes = $4 WHERE id = $5`

	result, err := r.q.ExecContext(ctx, query,
		patient.Name,
		patient.Email,
		patient.Phone,
		patient.Notes,
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return checkAffected(result, "patient")
}

func (r *patientRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return checkAffected(result, "patient")
}

func (r *patientRepository) List(ctx context.Context, filter *model.PatientFilter) ([]*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients`
	args := []interface{}{}

	if filter != nil && strings.TrimSpace(filter.Query) != "" {
		query += ` WHERE name ILIKE $1 OR email ILIKE $1`
		args = append(args, "%"+escapeLike(strings.TrimSpace(filter.Query))+"%")
	}

	query += ` ORDER BY created_at DESC, id DESC`

	patients := []*model.Patient{}
	if err := sqlx.SelectContext(ctx, r.q, &patients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM patients`); err != nil {
		return 0, fmt.Errorf("failed to count patients: %w", err)
	}
	return n, nil
}

// LockEmail takes a transaction-scoped advisory lock keyed on the email.
// Outside a transaction it is released immediately and has no effect.
func (r *patientRepository) LockEmail(ctx context.Context, email string) error {
	_, err := r.q.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext(lower($1)))`, email)
	if err != nil {
		return fmt.Errorf("failed to lock patient email: %w", err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
