package model

import (
	"time"
)

type Patient struct {
	Base
	Name        string     `json:"name" db:"name"`
	Phone       string     `json:"phone" db:"phone"`
	Email       string     `json:"email,omitempty" db:"email"`
	Gender      string     `json:"gender" db:"gender"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Address     string     `json:"address" db:"address"`
	Mode        DoctorMode `json:"mode" db:"mode"`

	// Obstetric fields, meaningful only when Mode == ModeGynecology.
	Gravida      *int       `json:"gravida,omitempty" db:"gravida"`
	Para         *int       `json:"para,omitempty" db:"para"`
	LastPeriod   *time.Time `json:"last_period,omitempty" db:"last_period"`
	ExpectedDue  *time.Time `json:"expected_due,omitempty" db:"expected_due"`
}

type CreatePatientRequest struct {
	Name        string     `json:"name" validate:"required,max=200"`
	Phone       string     `json:"phone" validate:"max=20"`
	Email       string     `json:"email" validate:"omitempty,email"`
	Gender      string     `json:"gender" validate:"omitempty,oneof=male female other"`
	DateOfBirth *time.Time `json:"date_of_birth" validate:"omitempty,notfuture"`
	Address     string     `json:"address" validate:"max=500"`
	Mode        DoctorMode `json:"mode" validate:"required,oneof=general gynecology"`
	Gravida     *int       `json:"gravida" validate:"omitempty,gte=0"`
	Para        *int       `json:"para" validate:"omitempty,gte=0"`
	LastPeriod  *time.Time `json:"last_period"`
	ExpectedDue *time.Time `json:"expected_due"`
}

type UpdatePatientRequest struct {
	Name        *string    `json:"name" validate:"omitempty,max=200"`
	Phone       *string    `json:"phone" validate:"omitempty,max=20"`
	Email       *string    `json:"email" validate:"omitempty,email"`
	Gender      *string    `json:"gender" validate:"omitempty,oneof=male female other"`
	DateOfBirth *time.Time `json:"date_of_birth" validate:"omitempty,notfuture"`
	Address     *string    `json:"address" validate:"omitempty,max=500"`
	Gravida     *int       `json:"gravida" validate:"omitempty,gte=0"`
	Para        *int       `json:"para" validate:"omitempty,gte=0"`
	LastPeriod  *time.Time `json:"last_period"`
	ExpectedDue *time.Time `json:"expected_due"`
}

// PatientFilters narrows List results within the caller's clinic.
type PatientFilters struct {
	Mode       DoctorMode `form:"mode"`
	SearchTerm string     `form:"search"`
}
