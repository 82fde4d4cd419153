package model

// Services offered for booking.
const (
	ServiceCleaning  = "Cleaning"
	ServiceFilling   = "Filling"
	ServiceWhitening = "Whitening"
	ServiceBraces    = "Braces"
)

// Services lists the bookable services in display order.
var Services = []string{ServiceCleaning, ServiceFilling, ServiceWhitening, ServiceBraces}

type Appointment struct {
	Base
	PatientID int64 `db:"patient_id" json:"patient_id"`
	// DateTime is free text as entered, e.g. "2024-05-01 10:00".
	DateTime string `db:"date_time" json:"date_time"`
	Service  string `db:"service" json:"service"`
	Dentist  string `db:"dentist" json:"dentist"`
	Notes    string `db:"notes" json:"notes"`

	// PatientName is filled by list queries that join patients.
	PatientName string `db:"patient_name" json:"patient_name,omitempty"`
}

// AppointmentForm books an appointment, creating the patient when the email
// is not known yet.
type AppointmentForm struct {
	Name    string `form:"name" json:"name" validate:"notblank,max=120"`
	Email   string `form:"email" json:"email" validate:"required,email,max=120"`
	Phone   string `form:"phone" json:"phone" validate:"max=50"`
	Date    string `form:"date" json:"date" validate:"notblank,max=80"`
	Service string `form:"service" json:"service" validate:"oneof=Cleaning Filling Whitening Braces"`
	Dentist string `form:"dentist" json:"dentist" validate:"max=120"`
	Notes   string `form:"notes" json:"notes" validate:"max=255"`
}

// Booking is the result of a successful appointment submission.
type Booking struct {
	Appointment    *Appointment `json:"appointment"`
	Patient        *Patient     `json:"patient"`
	PatientCreated bool         `json:"patient_created"`
}
