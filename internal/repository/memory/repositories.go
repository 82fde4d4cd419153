package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jwalitptl/dental-admin/internal/model"
	"github.com/jwalitptl/dental-admin/internal/repository"
)

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, repository.ErrNotFound)
}

func now() time.Time {
	return time.Now().UTC()
}

type userRepository struct{ s *Store }

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	t, unlock := r.s.lock()
	defer unlock()

	for _, u := range t.users {
		if u.Username == user.Username {
			return fmt.Errorf("failed to create user: username %q already exists", user.Username)
		}
	}
	t.userSeq++
	user.ID = t.userSeq
	user.CreatedAt = now()
	t.users[user.ID] = *user
	return nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	t, unlock := r.s.lock()
	defer unlock()

	for _, u := range t.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, notFound("user")
}

type patientRepository struct{ s *Store }

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	t, unlock := r.s.lock()
	defer unlock()

	t.patientSeq++
	patient.ID = t.patientSeq
	patient.CreatedAt = now()
	t.patients[patient.ID] = *patient
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id int64) (*model.Patient, error) {
	t, unlock := r.s.lock()
	defer unlock()

	p, ok := t.patients[id]
	if !ok {
		return nil, notFound("patient")
	}
	return &p, nil
}

func (r *patientRepository) GetByEmail(ctx context.Context, email string) (*model.Patient, error) {
	t, unlock := r.s.lock()
	defer unlock()

	var found *model.Patient
	for _, p := range t.patients {
		if !strings.EqualFold(p.Email, email) {
			continue
		}
		if found == nil || p.ID < found.ID {
			p := p
			found = &p
		}
	}
	if found == nil {
		return nil, notFound("patient")
	}
	return found, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	t, unlock := r.s.lock()
	defer unlock()

	existing, ok := t.patients[patient.ID]
	if !ok {
		return notFound("patient")
	}
	patient.CreatedAt = existing.CreatedAt
	t.patients[patient.ID] = *patient
	return nil
}

func (r *patientRepository) Delete(ctx context.Context, id int64) error {
	t, unlock := r.s.lock()
	defer unlock()

	if _, ok := t.patients[id]; !ok {
		return notFound("patient")
	}
	for _, a := range t.appointments {
		if a.PatientID == id {
			return fmt.Errorf("failed to delete patient: patient %d still has appointments", id)
		}
	}
	delete(t.patients, id)
	return nil
}

func (r *patientRepository) List(ctx context.Context, filter *model.PatientFilter) ([]*model.Patient, error) {
	t, unlock := r.s.lock()
	defer unlock()

	q := ""
	if filter != nil {
		q = strings.ToLower(strings.TrimSpace(filter.Query))
	}

	patients := []*model.Patient{}
	for _, p := range t.patients {
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Email), q) {
			continue
		}
		p := p
		patients = append(patients, &p)
	}
	sort.Slice(patients, func(i, j int) bool {
		if !patients[i].CreatedAt.Equal(patients[j].CreatedAt) {
			return patients[i].CreatedAt.After(patients[j].CreatedAt)
		}
		return patients[i].ID > patients[j].ID
	})
	return patients, nil
}

func (r *patientRepository) Count(ctx context.Context) (int64, error) {
	t, unlock := r.s.lock()
	defer unlock()
	return int64(len(t.patients)), nil
}

// LockEmail is a no-op: transactions already hold the store lock.
func (r *patientRepository) LockEmail(ctx context.Context, email string) error {
	return nil
}

type appointmentRepository struct{ s *Store }

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	t, unlock := r.s.lock()
	defer unlock()

	if _, ok := t.patients[appointment.PatientID]; !ok {
		return fmt.Errorf("failed to create appointment: patient %d does not exist", appointment.PatientID)
	}
	t.appointmentSeq++
	appointment.ID = t.appointmentSeq
	appointment.CreatedAt = now()

	stored := *appointment
	stored.PatientName = ""
	t.appointments[appointment.ID] = stored
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id int64) error {
	t, unlock := r.s.lock()
	defer unlock()

	if _, ok := t.appointments[id]; !ok {
		return notFound("appointment")
	}
	delete(t.appointments, id)
	return nil
}

func (r *appointmentRepository) List(ctx context.Context) ([]*model.Appointment, error) {
	return r.collect(func(*model.Appointment) bool { return true }, true, 0), nil
}

func (r *appointmentRepository) Upcoming(ctx context.Context, limit int) ([]*model.Appointment, error) {
	return r.collect(func(*model.Appointment) bool { return true }, false, limit), nil
}

func (r *appointmentRepository) ListByPatient(ctx context.Context, patientID int64) ([]*model.Appointment, error) {
	return r.collect(func(a *model.Appointment) bool { return a.PatientID == patientID }, true, 0), nil
}

// collect filters appointments, orders them by date_time then id and joins
// the patient name. A limit of zero means no limit.
func (r *appointmentRepository) collect(keep func(*model.Appointment) bool, desc bool, limit int) []*model.Appointment {
	t, unlock := r.s.lock()
	defer unlock()

	out := []*model.Appointment{}
	for _, a := range t.appointments {
		a := a
		if !keep(&a) {
			continue
		}
		a.PatientName = t.patients[a.PatientID].Name
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool {
		less := out[i].DateTime < out[j].DateTime ||
			(out[i].DateTime == out[j].DateTime && out[i].ID < out[j].ID)
		if desc {
			return !less
		}
		return less
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *appointmentRepository) CountByPatient(ctx context.Context, patientID int64) (int64, error) {
	t, unlock := r.s.lock()
	defer unlock()

	var n int64
	for _, a := range t.appointments {
		if a.PatientID == patientID {
			n++
		}
	}
	return n, nil
}

func (r *appointmentRepository) DeleteByPatient(ctx context.Context, patientID int64) (int64, error) {
	t, unlock := r.s.lock()
	defer unlock()

	var n int64
	for id, a := range t.appointments {
		if a.PatientID == patientID {
			delete(t.appointments, id)
			n++
		}
	}
	return n, nil
}

type treatmentRepository struct{ s *Store }

func (r *treatmentRepository) checkPatient(t *tables, tr *model.Treatment) error {
	if tr.PatientID == nil {
		return nil
	}
	if _, ok := t.patients[*tr.PatientID]; !ok {
		return fmt.Errorf("patient %d does not exist", *tr.PatientID)
	}
	return nil
}

func (r *treatmentRepository) Create(ctx context.Context, treatment *model.Treatment) error {
	t, unlock := r.s.lock()
	defer unlock()

	if err := r.checkPatient(t, treatment); err != nil {
		return fmt.Errorf("failed to create treatment: %w", err)
	}
	t.treatmentSeq++
	treatment.ID = t.treatmentSeq
	if treatment.Date.IsZero() {
		treatment.Date = now()
	}
	t.treatments[treatment.ID] = copyTreatment(*treatment)
	return nil
}

func (r *treatmentRepository) Get(ctx context.Context, id int64) (*model.Treatment, error) {
	t, unlock := r.s.lock()
	defer unlock()

	tr, ok := t.treatments[id]
	if !ok {
		return nil, notFound("treatment")
	}
	tr = copyTreatment(tr)
	return &tr, nil
}

func (r *treatmentRepository) Update(ctx context.Context, treatment *model.Treatment) error {
	t, unlock := r.s.lock()
	defer unlock()

	existing, ok := t.treatments[treatment.ID]
	if !ok {
		return notFound("treatment")
	}
	if err := r.checkPatient(t, treatment); err != nil {
		return fmt.Errorf("failed to update treatment: %w", err)
	}
	treatment.Date = existing.Date
	t.treatments[treatment.ID] = copyTreatment(*treatment)
	return nil
}

func (r *treatmentRepository) List(ctx context.Context) ([]*model.Treatment, error) {
	return r.collect(func(*model.Treatment) bool { return true }), nil
}

func (r *treatmentRepository) ListByPatient(ctx context.Context, patientID int64) ([]*model.Treatment, error) {
	return r.collect(func(tr *model.Treatment) bool {
		return tr.PatientID != nil && *tr.PatientID == patientID
	}), nil
}

func (r *treatmentRepository) collect(keep func(*model.Treatment) bool) []*model.Treatment {
	t, unlock := r.s.lock()
	defer unlock()

	out := []*model.Treatment{}
	for _, tr := range t.treatments {
		tr := copyTreatment(tr)
		if keep(&tr) {
			out = append(out, &tr)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *treatmentRepository) UnlinkPatient(ctx context.Context, patientID int64) error {
	t, unlock := r.s.lock()
	defer unlock()

	for id, tr := range t.treatments {
		if tr.PatientID != nil && *tr.PatientID == patientID {
			tr.PatientID = nil
			t.treatments[id] = tr
		}
	}
	return nil
}

type invoiceRepository struct{ s *Store }

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	t, unlock := r.s.lock()
	defer unlock()

	t.invoiceSeq++
	invoice.ID = t.invoiceSeq
	invoice.CreatedAt = now()
	t.invoices[invoice.ID] = *invoice
	return nil
}

func (r *invoiceRepository) List(ctx context.Context) ([]*model.Invoice, error) {
	return r.collect(func(*model.Invoice) bool { return true }), nil
}

func (r *invoiceRepository) ListByPatientName(ctx context.Context, name string) ([]*model.Invoice, error) {
	return r.collect(func(i *model.Invoice) bool { return i.PatientName == name }), nil
}

func (r *invoiceRepository) collect(keep func(*model.Invoice) bool) []*model.Invoice {
	t, unlock := r.s.lock()
	defer unlock()

	out := []*model.Invoice{}
	for _, inv := range t.invoices {
		inv := inv
		if keep(&inv) {
			out = append(out, &inv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *invoiceRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	t, unlock := r.s.lock()
	defer unlock()

	var n int64
	for _, inv := range t.invoices {
		if inv.Status == status {
			n++
		}
	}
	return n, nil
}
