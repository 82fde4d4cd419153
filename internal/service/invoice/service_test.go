package invoice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/dental-admin/internal/model"
	"github.com/jwalitptl/dental-admin/internal/repository/memory"
	apperrors "github.com/jwalitptl/dental-admin/pkg/errors"
	"github.com/jwalitptl/dental-admin/pkg/validator"
)

func TestCreateDefaultsToUnpaid(t *testing.T) {
	svc := NewService(memory.NewStore(), validator.New())

	inv, err := svc.Create(context.Background(), model.InvoiceForm{PatientName: "Jane Doe", Amount: "120.00"})
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusUnpaid, inv.Status)
	assert.Equal(t, 120.0, inv.Amount)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(memory.NewStore(), validator.New())

	_, err := svc.Create(context.Background(), model.InvoiceForm{Amount: "lots", Status: "Overdue"})

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "This field is required.", appErr.Fields["patient_name"])
	assert.Equal(t, "Not a valid number.", appErr.Fields["amount"])
	assert.Equal(t, "Not a valid choice.", appErr.Fields["status"])
}

func TestListMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewStore(), validator.New())

	_, err := svc.Create(ctx, model.InvoiceForm{PatientName: "A", Amount: "1", Status: model.InvoiceStatusPaid})
	require.NoError(t, err)
	latest, err := svc.Create(ctx, model.InvoiceForm{PatientName: "Jane Doe", Amount: "120", Status: model.InvoiceStatusUnpaid})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, latest.ID, list[0].ID)
}
