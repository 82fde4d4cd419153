package model

// UpcomingLimit is how many appointments the dashboard lists.
const UpcomingLimit = 6

type Dashboard struct {
	PatientsCount  int64          `json:"patients_count"`
	Upcoming       []*Appointment `json:"upcoming"`
	UnpaidInvoices int64          `json:"unpaid_invoices"`
}
