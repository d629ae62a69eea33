package session

import (
	"github.com/google/uuid"

	"github.com/AvaniK-2002/asvicare/internal/model"
)

// Scope is the clinic-scoped identity every data-access call runs under.
// It is resolved once per session and passed explicitly; services never
// trust caller-supplied clinic or creator ids. A nil *Scope means the
// caller is denied: writes fail fast, reads come back empty.
type Scope struct {
	ProfileID  uuid.UUID
	ClinicID   uuid.UUID
	AuthUserID uuid.UUID
	Role       model.Role
	Mode       model.DoctorMode
}

func (s *Scope) IsAdmin() bool {
	return s != nil && s.Role == model.RoleAdmin
}

func (s *Scope) CanDelete() bool {
	return s != nil && (s.Role == model.RoleAdmin || s.Role == model.RoleDoctor)
}

func fromProfile(p *model.UserProfile) *Scope {
	mode := p.Specialization
	if mode == "" {
		mode = model.ModeGeneral
	}
	return &Scope{
		ProfileID:  p.ID,
		ClinicID:   p.ClinicID,
		AuthUserID: p.AuthUserID,
		Role:       p.Role,
		Mode:       mode,
	}
}
