package treatment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jwalitptl/dental-admin/internal/model"
	"github.com/jwalitptl/dental-admin/internal/repository"
	apperrors "github.com/jwalitptl/dental-admin/pkg/errors"
	"github.com/jwalitptl/dental-admin/pkg/validator"
)

type TreatmentService interface {
	Create(ctx context.Context, form model.TreatmentForm) (*model.Treatment, error)
	Get(ctx context.Context, id int64) (*model.Treatment, error)
	Update(ctx context.Context, id int64, form model.TreatmentForm) (*model.Treatment, error)
	List(ctx context.Context) ([]*model.Treatment, error)
}

type Service struct {
	store     repository.Store
	validator validator.Validator
}

func NewService(store repository.Store, v validator.Validator) *Service {
	return &Service{store: store, validator: v}
}

// check validates the form and resolves the optional patient reference.
func (s *Service) check(ctx context.Context, form model.TreatmentForm) (*model.Treatment, error) {
	form.Name = strings.TrimSpace(form.Name)

	fields := s.validator.Validate(form)
	if fields == nil {
		fields = validator.FieldErrors{}
	}

	patientID, ok := form.PatientRef()
	if _, invalid := fields["patient_id"]; !ok && !invalid {
		fields["patient_id"] = "Not a valid patient."
	}
	if ok && patientID != nil {
		_, err := s.store.Patients().Get(ctx, *patientID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			fields["patient_id"] = "Patient does not exist."
		case err != nil:
			return nil, fmt.Errorf("failed to check patient: %w", err)
		}
	}

	if len(fields) > 0 {
		return nil, apperrors.Validation(fields)
	}

	price, _ := validator.ParseNumber(form.Price)
	return &model.Treatment{
		PatientID:   patientID,
		Name:        form.Name,
		Description: form.Description,
		Price:       price,
	}, nil
}

func (s *Service) Create(ctx context.Context, form model.TreatmentForm) (*model.Treatment, error) {
	treatment, err := s.check(ctx, form)
	if err != nil {
		return nil, err
	}
	if err := s.store.Treatments().Create(ctx, treatment); err != nil {
		return nil, fmt.Errorf("failed to create treatment: %w", err)
	}
	return treatment, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Treatment, error) {
	treatment, err := s.store.Treatments().Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return treatment, nil
}

func (s *Service) Update(ctx context.Context, id int64, form model.TreatmentForm) (*model.Treatment, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	treatment, err := s.check(ctx, form)
	if err != nil {
		return nil, err
	}
	treatment.ID = existing.ID
	treatment.Date = existing.Date

	if err := s.store.Treatments().Update(ctx, treatment); err != nil {
		return nil, translate(err)
	}
	return treatment, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Treatment, error) {
	treatments, err := s.store.Treatments().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list treatments: %w", err)
	}
	return treatments, nil
}

func translate(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("treatment", err)
	}
	return err
}
