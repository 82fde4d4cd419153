package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/dental-admin/internal/model"
)

type appointmentRepository struct {
	q sqlx.ExtContext
}

const appointmentSelect = `
	SELECT a.id, a.patient_id, a.date_time, a.service, a.dentist, a.notes,
	       a.created_at, p.name AS patient_name
	FROM appointments a
	JOIN patients p ON p.id = a.patient_id
`

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			patient_id, date_time, service, dentist, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	appointment.CreatedAt = time.Now().UTC()

	err := r.q.QueryRowxContext(ctx, query,
		appointment.PatientID,
		appointment.DateTime,
		appointment.Service,
		appointment.Dentist,
		appointment.Notes,
		appointment.CreatedAt,
	).Scan(&appointment.ID)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return checkAffected(result, "appointment")
}

func (r *appointmentRepository) List(ctx context.Context) ([]*model.Appointment, error) {
	return r.selectAppointments(ctx, appointmentSelect+` ORDER BY a.date_time DESC, a.id DESC`)
}

func (r *appointmentRepository) Upcoming(ctx context.Context, limit int) ([]*model.Appointment, error) {
	return r.selectAppointments(ctx, appointmentSelect+` ORDER BY a.date_time ASC, a.id ASC LIMIT $1`, limit)
}

func (r *appointmentRepository) ListByPatient(ctx context.Context, patientID int64) ([]*model.Appointment, error) {
	return r.selectAppointments(ctx, appointmentSelect+` WHERE a.patient_id = $1 ORDER BY a.date_time DESC, a.id DESC`, patientID)
}

func (r *appointmentRepository) selectAppointments(ctx context.Context, query string, args ...interface{}) ([]*model.Appointment, error) {
	appointments := []*model.Appointment{}
	if err := sqlx.SelectContext(ctx, r.q, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) CountByPatient(ctx context.Context, patientID int64) (int64, error) {
	var n int64
	err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM appointments WHERE patient_id = $1`, patientID)
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return n, nil
}

func (r *appointmentRepository) DeleteByPatient(ctx context.Context, patientID int64) (int64, error) {
	result, err := r.q.ExecContext(ctx, `DELETE FROM appointments WHERE patient_id = $1`, patientID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete patient appointments: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}
