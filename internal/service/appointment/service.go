package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/dental-admin/internal/model"
	"github.com/jwalitptl/dental-admin/internal/repository"
	apperrors "github.com/jwalitptl/dental-admin/pkg/errors"
	"github.com/jwalitptl/dental-admin/pkg/validator"
)

// Recorder receives booking outcomes.
type Recorder interface {
	AppointmentBooked(newPatient bool)
}

type AppointmentService interface {
	Book(ctx context.Context, form model.AppointmentForm) (*model.Booking, error)
	List(ctx context.Context) ([]*model.Appointment, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	store     repository.Store
	validator validator.Validator
	recorder  Recorder
}

func NewService(store repository.Store, v validator.Validator, recorder Recorder) *Service {
	return &Service{
		store:     store,
		validator: v,
		recorder:  recorder,
	}
}

// Book creates an appointment for the patient with the submitted email,
// creating that patient first if none exists. Both writes share one
// transaction.
func (s *Service) Book(ctx context.Context, form model.AppointmentForm) (*model.Booking, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Phone = strings.TrimSpace(form.Phone)
	form.Date = strings.TrimSpace(form.Date)

	if fields := s.validator.Validate(form); fields != nil {
		return nil, apperrors.Validation(fields)
	}

	booking := &model.Booking{}
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.Patients().LockEmail(ctx, form.Email); err != nil {
			return err
		}

		patient, err := tx.Patients().GetByEmail(ctx, form.Email)
		switch {
		case err == nil:
		case errors.Is(err, repository.ErrNotFound):
			patient = &model.Patient{
				Name:  form.Name,
				Email: form.Email,
				Phone: form.Phone,
			}
			if err := tx.Patients().Create(ctx, patient); err != nil {
				return err
			}
			booking.PatientCreated = true
		default:
			return err
		}

		appointment := &model.Appointment{
			PatientID: patient.ID,
			DateTime:  form.Date,
			Service:   form.Service,
			Dentist:   strings.TrimSpace(form.Dentist),
			Notes:     form.Notes,
		}
		if err := tx.Appointments().Create(ctx, appointment); err != nil {
			return err
		}
		appointment.PatientName = patient.Name

		booking.Patient = patient
		booking.Appointment = appointment
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to book appointment: %w", err)
	}

	if s.recorder != nil {
		s.recorder.AppointmentBooked(booking.PatientCreated)
	}
	log.Ctx(ctx).Info().
		Int64("appointment_id", booking.Appointment.ID).
		Int64("patient_id", booking.Patient.ID).
		Bool("patient_created", booking.PatientCreated).
		Msg("Appointment booked")

	return booking, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Appointment, error) {
	appointments, err := s.store.Appointments().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Appointments().Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("appointment", err)
		}
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}
