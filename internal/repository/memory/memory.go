// Package memory holds map-backed repository implementations. They serve
// two callers: the "not configured" startup mode, where the app runs with
// a mock identity and no persistence, and the test suites.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AvaniK-2002/asvicare/internal/model"
	"github.com/AvaniK-2002/asvicare/internal/repository"
)

// Store bundles every in-memory repository over one shared mutex.
type Store struct {
	mu sync.RWMutex

	clinics      map[uuid.UUID]model.Clinic
	profiles     map[uuid.UUID]model.UserProfile
	authUsers    map[string]authUser
	patients     map[uuid.UUID]model.Patient
	visits       map[uuid.UUID]model.Visit
	expenses     map[uuid.UUID]model.Expense
	appointments map[uuid.UUID]model.Appointment
	invoices     map[uuid.UUID]model.Invoice
	reminders    map[uuid.UUID]model.Reminder
	auditLogs    []model.AuditLog
}

type authUser struct {
	id           uuid.UUID
	passwordHash string
}

func NewStore() *Store {
	return &Store{
		clinics:      make(map[uuid.UUID]model.Clinic),
		profiles:     make(map[uuid.UUID]model.UserProfile),
		authUsers:    make(map[string]authUser),
		patients:     make(map[uuid.UUID]model.Patient),
		visits:       make(map[uuid.UUID]model.Visit),
		expenses:     make(map[uuid.UUID]model.Expense),
		appointments: make(map[uuid.UUID]model.Appointment),
		invoices:     make(map[uuid.UUID]model.Invoice),
		reminders:    make(map[uuid.UUID]model.Reminder),
	}
}

func (s *Store) Clinics() repository.ClinicRepository           { return (*clinicRepo)(s) }
func (s *Store) Profiles() repository.ProfileRepository         { return (*profileRepo)(s) }
func (s *Store) AuthUsers() repository.AuthUserRepository       { return (*authUserRepo)(s) }
func (s *Store) Patients() repository.PatientRepository         { return (*patientRepo)(s) }
func (s *Store) Visits() repository.VisitRepository             { return (*visitRepo)(s) }
func (s *Store) Expenses() repository.ExpenseRepository         { return (*expenseRepo)(s) }
func (s *Store) Appointments() repository.AppointmentRepository { return (*appointmentRepo)(s) }
func (s *Store) Invoices() repository.InvoiceRepository         { return (*invoiceRepo)(s) }
func (s *Store) Reminders() repository.ReminderRepository       { return (*reminderRepo)(s) }
func (s *Store) AuditLogs() repository.AuditRepository          { return (*auditRepo)(s) }

type clinicRepo Store

func (r *clinicRepo) Create(_ context.Context, clinic *model.Clinic) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clinics[clinic.ID] = *clinic
	return nil
}

func (r *clinicRepo) Get(_ context.Context, id uuid.UUID) (*model.Clinic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clinic, ok := r.clinics[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &clinic, nil
}

func (r *clinicRepo) Update(_ context.Context, clinic *model.Clinic) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clinics[clinic.ID]; !ok {
		return repository.ErrNotFound
	}
	r.clinics[clinic.ID] = *clinic
	return nil
}

type profileRepo Store

func (r *profileRepo) Create(_ context.Context, profile *model.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.ID] = *profile
	return nil
}

func (r *profileRepo) GetByAuthUserID(_ context.Context, authUserID uuid.UUID) (*model.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.profiles {
		if p.AuthUserID == authUserID {
			profile := p
			return &profile, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *profileRepo) ListByClinic(_ context.Context, clinicID uuid.UUID) ([]*model.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*model.UserProfile{}
	for _, p := range r.profiles {
		if p.ClinicID == clinicID {
			profile := p
			out = append(out, &profile)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type authUserRepo Store

func (r *authUserRepo) Create(_ context.Context, id uuid.UUID, email, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.authUsers[email] = authUser{id: id, passwordHash: passwordHash}
	return nil
}

func (r *authUserRepo) GetByEmail(_ context.Context, email string) (uuid.UUID, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.authUsers[email]
	if !ok {
		return uuid.Nil, "", repository.ErrNotFound
	}
	return u.id, u.passwordHash, nil
}

type patientRepo Store

func (r *patientRepo) Create(_ context.Context, patient *model.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patients[patient.ID] = *patient
	return nil
}

func (r *patientRepo) Get(_ context.Context, clinicID, id uuid.UUID) (*model.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	patient, ok := r.patients[id]
	if !ok || patient.ClinicID != clinicID {
		return nil, repository.ErrNotFound
	}
	return &patient, nil
}

func (r *patientRepo) List(_ context.Context, clinicID uuid.UUID, f *model.PatientFilters) ([]*model.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*model.Patient{}
	for _, p := range r.patients {
		if p.ClinicID != clinicID {
			continue
		}
		if f != nil && f.Mode != "" && p.Mode != f.Mode {
			continue
		}
		if f != nil && f.SearchTerm != "" {
			term := strings.ToLower(f.SearchTerm)
			if !strings.Contains(strings.ToLower(p.Name), term) && !strings.Contains(p.Phone, term) {
				continue
			}
		}
		patient := p
		out = append(out, &patient)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *patientRepo) Update(_ context.Context, patient *model.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.patients[patient.ID]
	if !ok || existing.ClinicID != patient.ClinicID {
		return repository.ErrNotFound
	}
	r.patients[patient.ID] = *patient
	return nil
}

func (r *patientRepo) Delete(_ context.Context, clinicID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.patients[id]
	if !ok || existing.ClinicID != clinicID {
		return repository.ErrNotFound
	}
	delete(r.patients, id)
	return nil
}

type visitRepo Store

func (r *visitRepo) Create(_ context.Context, visit *model.Visit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visits[visit.ID] = *visit
	return nil
}

func (r *visitRepo) Get(_ context.Context, clinicID, id uuid.UUID) (*model.Visit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	visit, ok := r.visits[id]
	if !ok || visit.ClinicID != clinicID {
		return nil, repository.ErrNotFound
	}
	return &visit, nil
}

func (r *visitRepo) List(_ context.Context, clinicID uuid.UUID, f *model.VisitFilters) ([]*model.Visit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*model.Visit{}
	for _, v := range r.visits {
		if v.ClinicID != clinicID {
			continue
		}
		if f != nil && f.PatientID != uuid.Nil && v.PatientID != f.PatientID {
			continue
		}
		if f != nil && !f.From.IsZero() && v.VisitDate.Before(f.From) {
			continue
		}
		if f != nil && !f.To.IsZero() && !v.VisitDate.Before(f.To) {
			continue
		}
		visit := v
		out = append(out, &visit)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VisitDate.After(out[j].VisitDate) })
	return out, nil
}

func (r *visitRepo) Update(_ context.Context, visit *model.Visit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.visits[visit.ID]
	if !ok || existing.ClinicID != visit.ClinicID {
		return repository.ErrNotFound
	}
	r.visits[visit.ID] = *visit
	return nil
}

func (r *visitRepo) Delete(_ context.Context, clinicID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.visits[id]
	if !ok || existing.ClinicID != clinicID {
		return repository.ErrNotFound
	}
	delete(r.visits, id)
	return nil
}

func (r *visitRepo) DeleteByPatient(_ context.Context, clinicID, patientID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, v := range r.visits {
		if v.ClinicID == clinicID && v.PatientID == patientID {
			delete(r.visits, id)
		}
	}
	return nil
}

type expenseRepo Store

func (r *expenseRepo) Create(_ context.Context, expense *model.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expenses[expense.ID] = *expense
	return nil
}

func (r *expenseRepo) Get(_ context.Context, clinicID, id uuid.UUID) (*model.Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	expense, ok := r.expenses[id]
	if !ok || expense.ClinicID != clinicID {
		return nil, repository.ErrNotFound
	}
	return &expense, nil
}

func (r *expenseRepo) List(_ context.Context, clinicID uuid.UUID, f *model.ExpenseFilters) ([]*model.Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*model.Expense{}
	for _, e := range r.expenses {
		if e.ClinicID != clinicID {
			continue
		}
		if f != nil && f.Mode != "" && e.Mode != f.Mode {
			continue
		}
		if f != nil && f.Category != "" && e.Category != f.Category {
			continue
		}
		if f != nil && !f.From.IsZero() && e.ExpenseDate.Before(f.From) {
			continue
		}
		if f != nil && !f.To.IsZero() && !e.ExpenseDate.Before(f.To) {
			continue
		}
		expense := e
		out = append(out, &expense)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpenseDate.After(out[j].ExpenseDate) })
	return out, nil
}

func (r *expenseRepo) Update(_ context.Context, expense *model.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.expenses[expense.ID]
	if !ok || existing.ClinicID != expense.ClinicID {
		return repository.ErrNotFound
	}
	r.expenses[expense.ID] = *expense
	return nil
}

func (r *expenseRepo) Delete(_ context.Context, clinicID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.expenses[id]
	if !ok || existing.ClinicID != clinicID {
		return repository.ErrNotFound
	}
	delete(r.expenses, id)
	return nil
}

type appointmentRepo Store

func (r *appointmentRepo) Create(_ context.Context, appointment *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appointments[appointment.ID] = *appointment
	return nil
}

func (r *appointmentRepo) Get(_ context.Context, clinicID, id uuid.UUID) (*model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	appointment, ok := r.appointments[id]
	if !ok || appointment.ClinicID != clinicID {
		return nil, repository.ErrNotFound
	}
	return &appointment, nil
}

func (r *appointmentRepo) List(_ context.Context, clinicID uuid.UUID, f *model.AppointmentFilters) ([]*model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*model.Appointment{}
	for _, a := range r.appointments {
		if a.ClinicID != clinicID {
			continue
		}
		if f != nil && f.PatientID != uuid.Nil && a.PatientID != f.PatientID {
			continue
		}
		if f != nil && f.AssigneeID != uuid.Nil && a.AssigneeID != f.AssigneeID {
			continue
		}
		if f != nil && f.Status != "" && a.Status != f.Status {
			continue
		}
		if f != nil && !f.From.IsZero() && a.StartTime.Before(f.From) {
			continue
		}
		if f != nil && !f.To.IsZero() && !a.StartTime.Before(f.To) {
			continue
		}
		appointment := a
		out = append(out, &appointment)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *appointmentRepo) Update(_ context.Context, appointment *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.appointments[appointment.ID]
	if !ok || existing.ClinicID != appointment.ClinicID {
		return repository.ErrNotFound
	}
	r.appointments[appointment.ID] = *appointment
	return nil
}

func (r *appointmentRepo) Delete(_ context.Context, clinicID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.appointments[id]
	if !ok || existing.ClinicID != clinicID {
		return repository.ErrNotFound
	}
	delete(r.appointments, id)
	return nil
}

type invoiceRepo Store

func (r *invoiceRepo) Create(_ context.Context, invoice *model.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices[invoice.ID] = *invoice
	return nil
}

func (r *invoiceRepo) Get(_ context.Context, clinicID, id uuid.UUID) (*model.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	invoice, ok := r.invoices[id]
	if !ok || invoice.ClinicID != clinicID {
		return nil, repository.ErrNotFound
	}
	return &invoice, nil
}

func (r *invoiceRepo) List(_ context.Context, clinicID uuid.UUID, f *model.InvoiceFilters) ([]*model.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*model.Invoice{}
	for _, inv := range r.invoices {
		if inv.ClinicID != clinicID {
			continue
		}
		if f != nil && f.PatientID != uuid.Nil && inv.PatientID != f.PatientID {
			continue
		}
		if f != nil && f.Status != "" && inv.Status != f.Status {
			continue
		}
		invoice := inv
		out = append(out, &invoice)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *invoiceRepo) Update(_ context.Context, invoice *model.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.invoices[invoice.ID]
	if !ok || existing.ClinicID != invoice.ClinicID {
		return repository.ErrNotFound
	}
	r.invoices[invoice.ID] = *invoice
	return nil
}

func (r *invoiceRepo) Delete(_ context.Context, clinicID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.invoices[id]
	if !ok || existing.ClinicID != clinicID {
		return repository.ErrNotFound
	}
	delete(r.invoices, id)
	return nil
}

type reminderRepo Store

func (r *reminderRepo) Create(_ context.Context, reminder *model.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reminders[reminder.ID] = *reminder
	return nil
}

func (r *reminderRepo) ListDue(_ context.Context, limit int) ([]*model.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	now := time.Now()
	out := []*model.Reminder{}
	for _, rem := range r.reminders {
		if rem.Status == model.ReminderPending && !rem.SendAt.After(now) {
			reminder := rem
			out = append(out, &reminder)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SendAt.Before(out[j].SendAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *reminderRepo) SetStatus(_ context.Context, id uuid.UUID, status model.ReminderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reminder, ok := r.reminders[id]
	if !ok {
		return repository.ErrNotFound
	}
	reminder.Status = status
	reminder.UpdatedAt = time.Now()
	r.reminders[id] = reminder
	return nil
}

func (r *reminderRepo) DeleteByAppointment(_ context.Context, clinicID, appointmentID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, rem := range r.reminders {
		if rem.ClinicID == clinicID && rem.AppointmentID == appointmentID {
			delete(r.reminders, id)
		}
	}
	return nil
}

type auditRepo Store

func (r *auditRepo) Create(_ context.Context, log *model.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.auditLogs = append(r.auditLogs, *log)
	return nil
}

func (r *auditRepo) List(_ context.Context, clinicID uuid.UUID, f *model.AuditFilters) ([]*model.AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*model.AuditLog{}
	for i := len(r.auditLogs) - 1; i >= 0; i-- {
		l := r.auditLogs[i]
		if l.ClinicID != clinicID {
			continue
		}
		if f != nil && f.EntityKind != "" && l.EntityKind != f.EntityKind {
			continue
		}
		if f != nil && f.ProfileID != uuid.Nil && l.ProfileID != f.ProfileID {
			continue
		}
		if f != nil && !f.From.IsZero() && l.CreatedAt.Before(f.From) {
			continue
		}
		if f != nil && !f.To.IsZero() && !l.CreatedAt.Before(f.To) {
			continue
		}
		log := l
		out = append(out, &log)
	}
	return out, nil
}
