package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/dental-admin/internal/model"
)

type invoiceRepository struct {
	q sqlx.ExtContext
}

const invoiceColumns = `id, patient_name, amount, description, status, created_at`

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	query := `
		INSERT INTO invoices (patient_name, amount, description, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	invoice.CreatedAt = time.Now().UTC()

	err := r.q.QueryRowxContext(ctx, query,
		invoice.PatientName,
		invoice.Amount,
		invoice.Description,
		invoice.Status,
		invoice.CreatedAt,
	).Scan(&invoice.ID)
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

func (r *invoiceRepository) List(ctx context.Context) ([]*model.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY created_at DESC, id DESC`

	invoices := []*model.Invoice{}
	if err := sqlx.SelectContext(ctx, r.q, &invoices, query); err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

func (r *invoiceRepository) ListByPatientName(ctx context.Context, name string) ([]*model.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE patient_name = $1 ORDER BY created_at DESC, id DESC`

	invoices := []*model.Invoice{}
	if err := sqlx.SelectContext(ctx, r.q, &invoices, query, name); err != nil {
		return nil, fmt.Errorf("failed to list patient invoices: %w", err)
	}
	return invoices, nil
}

func (r *invoiceRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	if err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM invoices WHERE status = $1`, status); err != nil {
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}
	return n, nil
}
