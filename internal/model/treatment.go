package model

import (
	"strconv"
	"strings"
	"time"
)

type Treatment struct {
	ID          int64     `db:"id" json:"id"`
	PatientID   *int64    `db:"patient_id" json:"patient_id,omitempty"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Price       float64   `db:"price" json:"price"`
	Date        time.Time `db:"date" json:"date"`
}

// TreatmentForm is the create/edit submission for a treatment. Price and
// PatientID are kept as text so malformed input can be reported per field.
type TreatmentForm struct {
	Name        string `form:"name" json:"name" validate:"notblank,max=120"`
	Description string `form:"description" json:"description"`
	Price       string `form:"price" json:"price" validate:"required,number,nonnegative"`
	PatientID   string `form:"patient_id" json:"patient_id" validate:"omitempty,number"`
}

// FormFromTreatment pre-fills the edit form.
func FormFromTreatment(t *Treatment) TreatmentForm {
	f := TreatmentForm{
		Name:        t.Name,
		Description: t.Description,
		Price:       strconv.FormatFloat(t.Price, 'f', 2, 64),
	}
	if t.PatientID != nil {
		f.PatientID = strconv.FormatInt(*t.PatientID, 10)
	}
	return f
}

// PatientRef parses the optional patient reference. ok is false when the
// field is set but is not a positive integer.
func (f TreatmentForm) PatientRef() (id *int64, ok bool) {
	s := strings.TrimSpace(f.PatientID)
	if s == "" {
		return nil, true
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return nil, false
	}
	return &n, true
}
