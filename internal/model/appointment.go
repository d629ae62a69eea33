package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentScheduled, AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}

type Appointment struct {
	Base
	PatientID  uuid.UUID         `json:"patient_id" db:"patient_id"`
	AssigneeID uuid.UUID         `json:"assignee_id" db:"assignee_id"`
	StartTime  time.Time         `json:"start_time" db:"start_time"`
	EndTime    time.Time         `json:"end_time" db:"end_time"`
	Status     AppointmentStatus `json:"status" db:"status"`
	Notes      string            `json:"notes,omitempty" db:"notes"`
}

type CreateAppointmentRequest struct {
	PatientID  uuid.UUID `json:"patient_id" validate:"required"`
	AssigneeID uuid.UUID `json:"assignee_id"`
	StartTime  time.Time `json:"start_time" validate:"required"`
	EndTime    time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	Notes      string    `json:"notes" validate:"max=1000"`
}

type UpdateAppointmentRequest struct {
	StartTime *time.Time         `json:"start_time"`
	EndTime   *time.Time         `json:"end_time"`
	Status    *AppointmentStatus `json:"status" validate:"omitempty,oneof=scheduled completed cancelled"`
	Notes     *string            `json:"notes" validate:"omitempty,max=1000"`
}

type AppointmentFilters struct {
	PatientID  uuid.UUID         `form:"patient_id"`
	AssigneeID uuid.UUID         `form:"assignee_id"`
	Status     AppointmentStatus `form:"status"`
	From       time.Time         `form:"from"`
	To         time.Time         `form:"to"`
}
