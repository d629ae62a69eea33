package model

import (
	"time"

	"github.com/google/uuid"
)

// Role gates the operations a profile may perform within its clinic.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleDoctor       Role = "doctor"
	RoleReceptionist Role = "receptionist"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleDoctor || r == RoleReceptionist
}

// UserProfile is the clinic-scoped identity of an authenticated user,
// distinct from the raw auth identity. One profile per auth user.
type UserProfile struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	ClinicID       uuid.UUID  `json:"clinic_id" db:"clinic_id"`
	AuthUserID     uuid.UUID  `json:"auth_user_id" db:"auth_user_id"`
	Role           Role       `json:"role" db:"role"`
	Name           string     `json:"name" db:"name"`
	Email          string     `json:"email" db:"email"`
	Specialization DoctorMode `json:"specialization,omitempty" db:"specialization"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

type SignupRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Name       string `json:"name" validate:"required,max=200"`
	ClinicName string `json:"clinic_name" validate:"required,max=200"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
