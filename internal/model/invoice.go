package model

// Invoice statuses
const (
	InvoiceStatusUnpaid = "Unpaid"
	InvoiceStatusPaid   = "Paid"
)

// Invoice is billed to a patient by name; there is no foreign key.
type Invoice struct {
	Base
	PatientName string  `db:"patient_name" json:"patient_name"`
	Amount      float64 `db:"amount" json:"amount"`
	Description string  `db:"description" json:"description"`
	Status      string  `db:"status" json:"status"`
}

type InvoiceForm struct {
	PatientName string `form:"patient_name" json:"patient_name" validate:"notblank,max=120"`
	Amount      string `form:"amount" json:"amount" validate:"required,number"`
	Description string `form:"description" json:"description" validate:"max=255"`
	Status      string `form:"status" json:"status" validate:"omitempty,oneof=Unpaid Paid"`
}
