package model

import (
	"time"

	"github.com/google/uuid"
)

// Visit is a single consultation for a patient. Visits are deleted in
// cascade with their patient.
type Visit struct {
	Base
	PatientID  uuid.UUID  `json:"patient_id" db:"patient_id"`
	Note       string     `json:"note" db:"note"`
	Fee        float64    `json:"fee" db:"fee"`
	VisitDate  time.Time  `json:"visit_date" db:"visit_date"`
	FollowUp   *time.Time `json:"follow_up,omitempty" db:"follow_up"`
	PhotoPath  string     `json:"photo_path,omitempty" db:"photo_path"`
}

type CreateVisitRequest struct {
	PatientID uuid.UUID  `json:"patient_id" validate:"required"`
	Note      string     `json:"note" validate:"max=2000"`
	Fee       float64    `json:"fee" validate:"gte=0"`
	VisitDate time.Time  `json:"visit_date" validate:"required,notfuture"`
	FollowUp  *time.Time `json:"follow_up"`
}

type UpdateVisitRequest struct {
	Note     *string    `json:"note" validate:"omitempty,max=2000"`
	Fee      *float64   `json:"fee" validate:"omitempty,gte=0"`
	FollowUp *time.Time `json:"follow_up"`
}

type VisitFilters struct {
	PatientID uuid.UUID `form:"patient_id"`
	From      time.Time `form:"from"`
	To        time.Time `form:"to"`
}
