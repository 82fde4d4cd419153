package model

import (
	"time"
)

// Base contains common fields for all models
type Base struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PatientFilter narrows the patient list.
type PatientFilter struct {
	// Query matches a case-insensitive substring of name or email.
	Query string `json:"q" form:"q"`
}
