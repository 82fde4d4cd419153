package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/dental-admin/internal/model"
)

type treatmentRepository struct {
	q sqlx.ExtContext
}

const treatmentColumns = `id, patient_id, name, description, price, date`

func (r *treatmentRepository) Create(ctx context.Context, treatment *model.Treatment) error {
	query := `
		INSERT INTO treatments (patient_id, name, description, price, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	if treatment.Date.IsZero() {
		treatment.Date = time.Now().UTC()
	}

	err := r.q.QueryRowxContext(ctx, query,
		treatment.PatientID,
		treatment.Name,
		treatment.Description,
		treatment.Price,
		treatment.Date,
	).Scan(&treatment.ID)
	if err != nil {
		return fmt.Errorf("failed to create treatment: %w", err)
	}
	return nil
}

func (r *treatmentRepository) Get(ctx context.Context, id int64) (*model.Treatment, error) {
	query := `SELECT ` + treatmentColumns + ` FROM treatments WHERE id = $1`

	var treatment model.Treatment
	if err := sqlx.GetContext(ctx, r.q, &treatment, query, id); err != nil {
		return nil, fmt.Errorf("failed to get treatment: %w", notFound(err))
	}
	return &treatment, nil
}

func (r *treatmentRepository) Update(ctx context.Context, treatment *model.Treatment) error {
	query := `UPDATE treatments SET patient_id = $1, name = $2, description = $3, price = $4 WHERE id = $5`

	result, err := r.q.ExecContext(ctx, query,
		treatment.PatientID,
		treatment.Name,
		treatment.Description,
		treatment.Price,
		treatment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update treatment: %w", err)
	}
	return checkAffected(result, "treatment")
}

func (r *treatmentRepository) List(ctx context.Context) ([]*model.Treatment, error) {
	query := `SELECT ` + treatmentColumns + ` FROM treatments ORDER BY date DESC, id DESC`

	treatments := []*model.Treatment{}
	if err := sqlx.SelectContext(ctx, r.q, &treatments, query); err != nil {
		return nil, fmt.Errorf("failed to list treatments: %w", err)
	}
	return treatments, nil
}

func (r *treatmentRepository) ListByPatient(ctx context.Context, patientID int64) ([]*model.Treatment, error) {
	query := `SELECT ` + treatmentColumns + ` FROM treatments WHERE patient_id = $1 ORDER BY date DESC, id DESC`

	treatments := []*model.Treatment{}
	if err := sqlx.SelectContext(ctx, r.q, &treatments, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list patient treatments: %w", err)
	}
	return treatments, nil
}

func (r *treatmentRepository) UnlinkPatient(ctx context.Context, patientID int64) error {
	_, err := r.q.ExecContext(ctx, `UPDATE treatments SET patient_id = NULL WHERE patient_id = $1`, patientID)
	if err != nil {
		return fmt.Errorf("failed to unlink treatments: %w", err)
	}
	return nil
}
