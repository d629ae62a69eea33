package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/AvaniK-2002/asvicare/internal/model"
)

// ErrNotFound is returned when a row is absent or owned by another
// clinic. Callers cannot tell the two apart.
var ErrNotFound = errors.New("row not found")

// Every read and mutation below the service layer carries an explicit
// clinicID predicate. A guessed row id outside the caller's clinic
// behaves exactly like a missing row.

type ClinicRepository interface {
	Create(ctx context.Context, clinic *model.Clinic) error
	Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
	Update(ctx context.Context, clinic *model.Clinic) error
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *model.UserProfile) error
	GetByAuthUserID(ctx context.Context, authUserID uuid.UUID) (*model.UserProfile, error)
	ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.UserProfile, error)
}

type AuthUserRepository interface {
	Create(ctx context.Context, id uuid.UUID, email, passwordHash string) error
	GetByEmail(ctx context.Context, email string) (id uuid.UUID, passwordHash string, err error)
}

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Patient, error)
	List(ctx context.Context, clinicID uuid.UUID, f *model.PatientFilters) ([]*model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
	Delete(ctx context.Context, clinicID, id uuid.UUID) error
}

type VisitRepository interface {
	Create(ctx context.Context, visit *model.Visit) error
	Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Visit, error)
	List(ctx context.Context, clinicID uuid.UUID, f *model.VisitFilters) ([]*model.Visit, error)
	Update(ctx context.Context, visit *model.Visit) error
	Delete(ctx context.Context, clinicID, id uuid.UUID) error
	DeleteByPatient(ctx context.Context, clinicID, patientID uuid.UUID) error
}

type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.Expense) error
	Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Expense, error)
	List(ctx context.Context, clinicID uuid.UUID, f *model.ExpenseFilters) ([]*model.Expense, error)
	Update(ctx context.Context, expense *model.Expense) error
	Delete(ctx context.Context, clinicID, id uuid.UUID) error
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Appointment, error)
	List(ctx context.Context, clinicID uuid.UUID, f *model.AppointmentFilters) ([]*model.Appointment, error)
	Update(ctx context.Context, appointment *model.Appointment) error
	Delete(ctx context.Context, clinicID, id uuid.UUID) error
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Invoice, error)
	List(ctx context.Context, clinicID uuid.UUID, f *model.InvoiceFilters) ([]*model.Invoice, error)
	Update(ctx context.Context, invoice *model.Invoice) error
	Delete(ctx context.Context, clinicID, id uuid.UUID) error
}

type ReminderRepository interface {
	Create(ctx context.Context, reminder *model.Reminder) error
	ListDue(ctx context.Context, limit int) ([]*model.Reminder, error)
	SetStatus(ctx context.Context, id uuid.UUID, status model.ReminderStatus) error
	DeleteByAppointment(ctx context.Context, clinicID, appointmentID uuid.UUID) error
}

type AuditRepository interface {
	Create(ctx context.Context, log *model.AuditLog) error
	List(ctx context.Context, clinicID uuid.UUID, f *model.AuditFilters) ([]*model.AuditLog, error)
}
