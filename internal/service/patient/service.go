package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jwalitptl/dental-admin/internal/config"
	"github.com/jwalitptl/dental-admin/internal/model"
	"github.com/jwalitptl/dental-admin/internal/repository"
	apperrors "github.com/jwalitptl/dental-admin/pkg/errors"
	"github.com/jwalitptl/dental-admin/pkg/validator"
)

// ErrHasAppointments is returned by Delete under the restrict policy.
var ErrHasAppointments = errors.New("patient has appointments")

type PatientService interface {
	Create(ctx context.Context, form model.PatientForm) (*model.Patient, error)
	Get(ctx context.Context, id int64) (*model.Patient, error)
	Detail(ctx context.Context, id int64) (*model.PatientDetail, error)
	Update(ctx context.Context, id int64, form model.PatientForm) (*model.Patient, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter *model.PatientFilter) ([]*model.Patient, error)
}

type Service struct {
	store        repository.Store
	validator    validator.Validator
	deletePolicy string
}

func NewService(store repository.Store, v validator.Validator, deletePolicy string) *Service {
	if deletePolicy == "" {
		deletePolicy = config.DeletePolicyRestrict
	}
	return &Service{
		store:        store,
		validator:    v,
		deletePolicy: deletePolicy,
	}
}

func normalize(form model.PatientForm) model.PatientForm {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Phone = strings.TrimSpace(form.Phone)
	return form
}

func (s *Service) Create(ctx context.Context, form model.PatientForm) (*model.Patient, error) {
	form = normalize(form)
	if fields := s.validator.Validate(form); fields != nil {
		return nil, apperrors.Validation(fields)
	}

	patient := &model.Patient{}
	form.Apply(patient)

	if err := s.store.Patients().Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return patient, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Patient, error) {
	patient, err := s.store.Patients().Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return patient, nil
}

// Detail loads a patient with its appointments, treatments and the invoices
// billed under the same name.
func (s *Service) Detail(ctx context.Context, id int64) (*model.PatientDetail, error) {
	patient, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	appointments, err := s.store.Appointments().ListByPatient(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}
	treatments, err := s.store.Treatments().ListByPatient(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load treatments: %w", err)
	}
	invoices, err := s.store.Invoices().ListByPatientName(ctx, patient.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoices: %w", err)
	}

	return &model.PatientDetail{
		Patient:      patient,
		Appointments: appointments,
		Treatments:   treatments,
		Invoices:     invoices,
	}, nil
}

func (s *Service) Update(ctx context.Context, id int64, form model.PatientForm) (*model.Patient, error) {
	form = normalize(form)
	if fields := s.validator.Validate(form); fields != nil {
		return nil, apperrors.Validation(fields)
	}

	patient, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	form.Apply(patient)

	if err := s.store.Patients().Update(ctx, patient); err != nil {
		return nil, translate(err)
	}
	return patient, nil
}

// Delete removes a patient. Under the restrict policy a patient with
// appointments is refused with a conflict; under cascade the appointments go
// too. Linked treatments are kept and unlinked either way.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Patients().Get(ctx, id); err != nil {
			return translate(err)
		}

		switch s.deletePolicy {
		case config.DeletePolicyCascade:
			if _, err := tx.Appointments().DeleteByPatient(ctx, id); err != nil {
				return fmt.Errorf("failed to delete appointments: %w", err)
			}
		default:
			n, err := tx.Appointments().CountByPatient(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to count appointments: %w", err)
			}
			if n > 0 {
				return apperrors.Conflict(
					fmt.Sprintf("Patient has %d appointment(s); remove them first", n),
					ErrHasAppointments,
				)
			}
		}

		if err := tx.Treatments().UnlinkPatient(ctx, id); err != nil {
			return fmt.Errorf("failed to unlink treatments: %w", err)
		}
		if err := tx.Patients().Delete(ctx, id); err != nil {
			return translate(err)
		}
		return nil
	})
}

func (s *Service) List(ctx context.Context, filter *model.PatientFilter) ([]*model.Patient, error) {
	patients, err := s.store.Patients().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func translate(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("patient", err)
	}
	return err
}
