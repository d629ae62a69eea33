package model

import (
	"time"

	"github.com/google/uuid"
)

type ReminderStatus string

const (
	ReminderPending ReminderStatus = "pending"
	ReminderSent    ReminderStatus = "sent"
	ReminderFailed  ReminderStatus = "failed"
)

// Reminder is an email nudge for an upcoming appointment, delivered by
// the reminder worker.
type Reminder struct {
	ID            uuid.UUID      `json:"id" db:"id"`
	ClinicID      uuid.UUID      `json:"clinic_id" db:"clinic_id"`
	AppointmentID uuid.UUID      `json:"appointment_id" db:"appointment_id"`
	Email         string         `json:"email" db:"email"`
	SendAt        time.Time      `json:"send_at" db:"send_at"`
	Status        ReminderStatus `json:"status" db:"status"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}
