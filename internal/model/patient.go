package model

// Patient is a person treated by the practice.
type Patient struct {
	Base
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
	Phone string `db:"phone" json:"phone"`
	Notes string `db:"notes" json:"notes"`
}

// PatientForm is the create/edit submission for a patient.
type PatientForm struct {
	Name  string `form:"name" json:"name" validate:"notblank,max=120"`
	Email string `form:"email" json:"email" validate:"omitempty,email,max=120"`
	Phone string `form:"phone" json:"phone" validate:"max=50"`
	Notes string `form:"notes" json:"notes"`
}

// FormFromPatient pre-fills the edit form.
func FormFromPatient(p *Patient) PatientForm {
	return PatientForm{Name: p.Name, Email: p.Email, Phone: p.Phone, Notes: p.Notes}
}

// Apply copies the submitted fields onto p.
func (f PatientForm) Apply(p *Patient) {
	p.Name = f.Name
	p.Email = f.Email
	p.Phone = f.Phone
	p.Notes = f.Notes
}

// PatientDetail is a patient with the records shown on its page. Invoices are
// matched on patient name only, so renaming a patient detaches them.
type PatientDetail struct {
	Patient      *Patient       `json:"patient"`
	Appointments []*Appointment `json:"appointments"`
	Treatments   []*Treatment   `json:"treatments"`
	Invoices     []*Invoice     `json:"invoices"`
}
