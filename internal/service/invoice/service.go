package invoice

import (
	"context"
	"fmt"
	"strings"

	"github.com/jwalitptl/dental-admin/internal/model"
	"github.com/jwalitptl/dental-admin/internal/repository"
	apperrors "github.com/jwalitptl/dental-admin/pkg/errors"
	"github.com/jwalitptl/dental-admin/pkg/validator"
)

type InvoiceService interface {
	Create(ctx context.Context, form model.InvoiceForm) (*model.Invoice, error)
	List(ctx context.Context) ([]*model.Invoice, error)
}

type Service struct {
	store     repository.Store
	validator validator.Validator
}

func NewService(store repository.Store, v validator.Validator) *Service {
	return &Service{store: store, validator: v}
}

func (s *Service) Create(ctx context.Context, form model.InvoiceForm) (*model.Invoice, error) {
	form.PatientName = strings.TrimSpace(form.PatientName)
	if fields := s.validator.Validate(form); fields != nil {
		return nil, apperrors.Validation(fields)
	}

	amount, _ := validator.ParseNumber(form.Amount)
	status := form.Status
	if status == "" {
		status = model.InvoiceStatusUnpaid
	}

	invoice := &model.Invoice{
		PatientName: form.PatientName,
		Amount:      amount,
		Description: form.Description,
		Status:      status,
	}
	if err := s.store.Invoices().Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	return invoice, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Invoice, error) {
	invoices, err := s.store.Invoices().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}
