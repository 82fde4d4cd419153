package repository

import (
	"context"
	"errors"

	"github.com/jwalitptl/dental-admin/internal/model"
)

// ErrNotFound is returned (wrapped) when an id or key does not resolve.
var ErrNotFound = errors.New("record not found")

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		GetByUsername(ctx context.Context, username string) (*model.User, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id int64) (*model.Patient, error)
		GetByEmail(ctx context.Context, email string) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context, filter *model.PatientFilter) ([]*model.Patient, error)
		Count(ctx context.Context) (int64, error)
		// LockEmail serialises find-or-create on one email until the
		// surrounding transaction ends.
		LockEmail(ctx context.Context, email string) error
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id int64) error
		// List returns every appointment, latest date_time first.
		List(ctx context.Context) ([]*model.Appointment, error)
		// Upcoming returns the first limit appointments by date_time.
		Upcoming(ctx context.Context, limit int) ([]*model.Appointment, error)
		ListByPatient(ctx context.Context, patientID int64) ([]*model.Appointment, error)
		CountByPatient(ctx context.Context, patientID int64) (int64, error)
		DeleteByPatient(ctx context.Context, patientID int64) (int64, error)
	}

	TreatmentRepository interface {
		Create(ctx context.Context, treatment *model.Treatment) error
		Get(ctx context.Context, id int64) (*model.Treatment, error)
		Update(ctx context.Context, treatment *model.Treatment) error
		List(ctx context.Context) ([]*model.Treatment, error)
		ListByPatient(ctx context.Context, patientID int64) ([]*model.Treatment, error)
		// UnlinkPatient clears patient_id on the patient's treatments.
		UnlinkPatient(ctx context.Context, patientID int64) error
	}

	InvoiceRepository interface {
		Create(ctx context.Context, invoice *model.Invoice) error
		List(ctx context.Context) ([]*model.Invoice, error)
		ListByPatientName(ctx context.Context, name string) ([]*model.Invoice, error)
		CountByStatus(ctx context.Context, status string) (int64, error)
	}

	// Store groups the repositories over one connection or transaction.
	Store interface {
		Users() UserRepository
		Patients() PatientRepository
		Appointments() AppointmentRepository
		Treatments() TreatmentRepository
		Invoices() InvoiceRepository

		// WithTx runs fn against a transactional Store. The transaction
		// commits when fn returns nil and rolls back otherwise.
		WithTx(ctx context.Context, fn func(tx Store) error) error
		Ping(ctx context.Context) error
	}
)
