package model

import (
	"time"

	"github.com/google/uuid"
)

type InvoiceStatus string

const (
	InvoiceDraft  InvoiceStatus = "draft"
	InvoiceIssued InvoiceStatus = "issued"
	InvoicePaid   InvoiceStatus = "paid"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceDraft, InvoiceIssued, InvoicePaid:
		return true
	}
	return false
}

// Invoice bills a patient for one visit.
type Invoice struct {
	Base
	PatientID uuid.UUID     `json:"patient_id" db:"patient_id"`
	VisitID   uuid.UUID     `json:"visit_id" db:"visit_id"`
	Amount    float64       `json:"amount" db:"amount"`
	Status    InvoiceStatus `json:"status" db:"status"`
	IssuedAt  *time.Time    `json:"issued_at,omitempty" db:"issued_at"`
	PaidAt    *time.Time    `json:"paid_at,omitempty" db:"paid_at"`
}

type CreateInvoiceRequest struct {
	PatientID uuid.UUID `json:"patient_id" validate:"required"`
	VisitID   uuid.UUID `json:"visit_id" validate:"required"`
	Amount    float64   `json:"amount" validate:"required,money"`
}

type UpdateInvoiceRequest struct {
	Amount *float64       `json:"amount" validate:"omitempty,money"`
	Status *InvoiceStatus `json:"status" validate:"omitempty,oneof=draft issued paid"`
}

type InvoiceFilters struct {
	PatientID uuid.UUID     `form:"patient_id"`
	Status    InvoiceStatus `form:"status"`
}
