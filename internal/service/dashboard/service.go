package dashboard

import (
	"context"
	"fmt"

	"github.com/jwalitptl/dental-admin/internal/model"
	"github.com/jwalitptl/dental-admin/internal/repository"
)

type Service struct {
	store repository.Store
}

func NewService(store repository.Store) *Service {
	return &Service{store: store}
}

func (s *Service) Get(ctx context.Context) (*model.Dashboard, error) {
	patients, err := s.store.Patients().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count patients: %w", err)
	}

	upcoming, err := s.store.Appointments().Upcoming(ctx, model.UpcomingLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load upcoming appointments: %w", err)
	}

	unpaid, err := s.store.Invoices().CountByStatus(ctx, model.InvoiceStatusUnpaid)
	if err != nil {
		return nil, fmt.Errorf("failed to count unpaid invoices: %w", err)
	}

	return &model.Dashboard{
		PatientsCount:  patients,
		Upcoming:       upcoming,
		UnpaidInvoices: unpaid,
	}, nil
}
