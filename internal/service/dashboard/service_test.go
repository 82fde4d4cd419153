package dashboard

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/dental-admin/internal/model"
	"github.com/jwalitptl/dental-admin/internal/repository/memory"
)

func TestGet(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	p := &model.Patient{Name: "Jane"}
	require.NoError(t, store.Patients().Create(ctx, p))
	for day := 9; day >= 1; day-- {
		require.NoError(t, store.Appointments().Create(ctx, &model.Appointment{
			PatientID: p.ID,
			DateTime:  fmt.Sprintf("2024-05-%02d 10:00", day),
			Service:   model.ServiceCleaning,
		}))
	}
	require.NoError(t, store.Invoices().Create(ctx, &model.Invoice{PatientName: "Jane", Amount: 1, Status: model.InvoiceStatusUnpaid}))
	require.NoError(t, store.Invoices().Create(ctx, &model.Invoice{PatientName: "Jane", Amount: 2, Status: model.InvoiceStatusPaid}))

	d, err := NewService(store).Get(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(1), d.PatientsCount)
	assert.Equal(t, int64(1), d.UnpaidInvoices)
	require.Len(t, d.Upcoming, model.UpcomingLimit)
	assert.Equal(t, "2024-05-01 10:00", d.Upcoming[0].DateTime)
	assert.Equal(t, "2024-05-06 10:00", d.Upcoming[5].DateTime)
}
