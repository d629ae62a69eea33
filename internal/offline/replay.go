package offline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AvaniK-2002/asvicare/internal/model"
	"github.com/AvaniK-2002/asvicare/internal/service/appointment"
	"github.com/AvaniK-2002/asvicare/internal/service/expense"
	"github.com/AvaniK-2002/asvicare/internal/service/patient"
	"github.com/AvaniK-2002/asvicare/internal/service/session"
	"github.com/AvaniK-2002/asvicare/internal/service/visit"
	apperrors "github.com/AvaniK-2002/asvicare/pkg/errors"
)

// Applier replays one queued operation.
type Applier interface {
	Apply(ctx context.Context, op *Operation) error
}

// Replayer pushes queued mutations back through the scoped services, so
// a replay is subject to exactly the same clinic scoping and stamping
// as a foreground write.
type Replayer struct {
	patients     patient.PatientService
	visits       visit.VisitService
	expenses     expense.ExpenseService
	appointments appointment.AppointmentService
}

func NewReplayer(
	patients patient.PatientService,
	visits visit.VisitService,
	expenses expense.ExpenseService,
	appointments appointment.AppointmentService,
) *Replayer {
	return &Replayer{
		patients:     patients,
		visits:       visits,
		expenses:     expenses,
		appointments: appointments,
	}
}

func (r *Replayer) Apply(ctx context.Context, op *Operation) error {
	sc := &session.Scope{
		ProfileID:  op.Scope.ProfileID,
		ClinicID:   op.Scope.ClinicID,
		AuthUserID: op.Scope.AuthUserID,
		Role:       op.Scope.Role,
		Mode:       op.Scope.Mode,
	}

	switch op.Kind {
	case model.KindPatient:
		return r.applyPatient(ctx, sc, op)
	case model.KindVisit:
		return r.applyVisit(ctx, sc, op)
	case model.KindExpense:
		return r.applyExpense(ctx, sc, op)
	case model.KindAppointment:
		return r.applyAppointment(ctx, sc, op)
	default:
		return fmt.Errorf("unknown entity kind %q", op.Kind)
	}
}

func (r *Replayer) applyPatient(ctx context.Context, sc *session.Scope, op *Operation) error {
	switch op.Type {
	case OpCreate:
		var req model.CreatePatientRequest
		if err := json.Unmarshal(op.Payload, &req); err != nil {
			return err
		}
		_, err := r.patients.Create(ctx, sc, &req)
		return err
	case OpUpdate:
		var req model.UpdatePatientRequest
		if err := json.Unmarshal(op.Payload, &req); err != nil {
			return err
		}
		_, err := r.patients.Update(ctx, sc, op.EntityID, &req)
		return err
	case OpDelete:
		return ignoreGone(r.patients.Delete(ctx, sc, op.EntityID))
	default:
		return fmt.Errorf("unknown operation type %q", op.Type)
	}
}

func (r *Replayer) applyVisit(ctx context.Context, sc *session.Scope, op *Operation) error {
	switch op.Type {
	case OpCreate:
		var req model.CreateVisitRequest
		if err := json.Unmarshal(op.Payload, &req); err != nil {
			return err
		}
		_, err := r.visits.Create(ctx, sc, &req)
		return err
	case OpUpdate:
		var req model.UpdateVisitRequest
		if err := json.Unmarshal(op.Payload, &req); err != nil {
			return err
		}
		_, err := r.visits.Update(ctx, sc, op.EntityID, &req)
		return err
	case OpDelete:
		return ignoreGone(r.visits.Delete(ctx, sc, op.EntityID))
	default:
		return fmt.Errorf("unknown operation type %q", op.Type)
	}
}

func (r *Replayer) applyExpense(ctx context.Context, sc *session.Scope, op *Operation) error {
	switch op.Type {
	case OpCreate:
		var req model.CreateExpenseRequest
		if err := json.Unmarshal(op.Payload, &req); err != nil {
			return err
		}
		_, err := r.expenses.Create(ctx, sc, &req)
		return err
	case OpUpdate:
		var req model.UpdateExpenseRequest
		if err := json.Unmarshal(op.Payload, &req); err != nil {
			return err
		}
		_, err := r.expenses.Update(ctx, sc, op.EntityID, &req)
		return err
	case OpDelete:
		return ignoreGone(r.expenses.Delete(ctx, sc, op.EntityID))
	default:
		return fmt.Errorf("unknown operation type %q", op.Type)
	}
}

func (r *Replayer) applyAppointment(ctx context.Context, sc *session.Scope, op *Operation) error {
	switch op.Type {
	case OpCreate:
		var req model.CreateAppointmentRequest
		if err := json.Unmarshal(op.Payload, &req); err != nil {
			return err
		}
		_, err := r.appointments.Create(ctx, sc, &req)
		return err
	case OpUpdate:
		var req model.UpdateAppointmentRequest
		if err := json.Unmarshal(op.Payload, &req); err != nil {
			return err
		}
		_, err := r.appointments.Update(ctx, sc, op.EntityID, &req)
		return err
	case OpDelete:
		return ignoreGone(r.appointments.Delete(ctx, sc, op.EntityID))
	default:
		return fmt.Errorf("unknown operation type %q", op.Type)
	}
}

// ignoreGone treats deleting an already-deleted row as success.
func ignoreGone(err error) error {
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	return err
}
