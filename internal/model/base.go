package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all clinic-owned models
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ClinicID  uuid.UUID `json:"clinic_id" db:"clinic_id"`
	CreatedBy uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DoctorMode partitions patients, visits and expenses by specialization
// track.
type DoctorMode string

const (
	ModeGeneral    DoctorMode = "general"
	ModeGynecology DoctorMode = "gynecology"
)

func (m DoctorMode) Valid() bool {
	return m == ModeGeneral || m == ModeGynecology
}

// Pagination represents common pagination parameters
type Pagination struct {
	Page     int `json:"page" form:"page"`
	PageSize int `json:"page_size" form:"page_size"`
}

// EntityKind names an entity namespace, shared by the cache, the offline
// queue and the audit trail.
type EntityKind string

const (
	KindPatient     EntityKind = "patients"
	KindVisit       EntityKind = "visits"
	KindExpense     EntityKind = "expenses"
	KindAppointment EntityKind = "appointments"
	KindInvoice     EntityKind = "invoices"
)
