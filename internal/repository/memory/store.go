// Package memory is a process-local Store used by the "memory" database
// driver and by tests. Data is lost on restart.
package memory

import (
	"context"
	"sync"

	"github.com/jwalitptl/dental-admin/internal/model"
	"github.com/jwalitptl/dental-admin/internal/repository"
)

type tables struct {
	users        map[int64]model.User
	patients     map[int64]model.Patient
	appointments map[int64]model.Appointment
	treatments   map[int64]model.Treatment
	invoices     map[int64]model.Invoice

	userSeq, patientSeq, appointmentSeq, treatmentSeq, invoiceSeq int64
}

func newTables() *tables {
	return &tables{
		users:        map[int64]model.User{},
		patients:     map[int64]model.Patient{},
		appointments: map[int64]model.Appointment{},
		treatments:   map[int64]model.Treatment{},
		invoices:     map[int64]model.Invoice{},
	}
}

func (t *tables) clone() *tables {
	c := *t
	c.users = make(map[int64]model.User, len(t.users))
	for k, v := range t.users {
		c.users[k] = v
	}
	c.patients = make(map[int64]model.Patient, len(t.patients))
	for k, v := range t.patients {
		c.patients[k] = v
	}
	c.appointments = make(map[int64]model.Appointment, len(t.appointments))
	for k, v := range t.appointments {
		c.appointments[k] = v
	}
	c.treatments = make(map[int64]model.Treatment, len(t.treatments))
	for k, v := range t.treatments {
		c.treatments[k] = copyTreatment(v)
	}
	c.invoices = make(map[int64]model.Invoice, len(t.invoices))
	for k, v := range t.invoices {
		c.invoices[k] = v
	}
	return &c
}

type state struct {
	mu   sync.Mutex
	data *tables
}

// Store implements repository.Store. Transactions hold the store lock for
// their whole duration, so they are fully serialised.
type Store struct {
	st   *state
	inTx bool
}

func NewStore() *Store {
	return &Store{st: &state{data: newTables()}}
}

// lock returns the live tables and a release func. Inside a transaction the
// lock is already held.
func (s *Store) lock() (*tables, func()) {
	if s.inTx {
		return s.st.data, func() {}
	}
	s.st.mu.Lock()
	return s.st.data, s.st.mu.Unlock
}

func (s *Store) Users() repository.UserRepository               { return &userRepository{s: s} }
func (s *Store) Patients() repository.PatientRepository         { return &patientRepository{s: s} }
func (s *Store) Appointments() repository.AppointmentRepository { return &appointmentRepository{s: s} }
func (s *Store) Treatments() repository.TreatmentRepository     { return &treatmentRepository{s: s} }
func (s *Store) Invoices() repository.InvoiceRepository         { return &invoiceRepository{s: s} }

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// WithTx runs fn with the store locked and restores the previous contents if
// fn fails or panics.
func (s *Store) WithTx(ctx context.Context, fn func(repository.Store) error) (err error) {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	snapshot := s.st.data.clone()
	defer func() {
		if p := recover(); p != nil {
			s.st.data = snapshot
			panic(p)
		}
		if err != nil {
			s.st.data = snapshot
		}
	}()

	return fn(&Store{st: s.st, inTx: true})
}

func copyTreatment(t model.Treatment) model.Treatment {
	if t.PatientID != nil {
		id := *t.PatientID
		t.PatientID = &id
	}
	return t
}
