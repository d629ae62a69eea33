package dashboard

import (
	"context"
	"time"

	"github.com/AvaniK-2002/asvicare/internal/model"
	"github.com/AvaniK-2002/asvicare/internal/repository"
	"github.com/AvaniK-2002/asvicare/internal/service/session"
	apperrors "github.com/AvaniK-2002/asvicare/pkg/errors"
)

// PendingCounter reports how many mutations sit in the offline queue.
type PendingCounter interface {
	Pending() int
}

// Service derives dashboard views from scoped reads only. It never
// mutates state, and empty clinics produce zeroed aggregates.
type Service struct {
	patients     repository.PatientRepository
	visits       repository.VisitRepository
	expenses     repository.ExpenseRepository
	appointments repository.AppointmentRepository
	pending      PendingCounter
}

func NewService(
	patients repository.PatientRepository,
	visits repository.VisitRepository,
	expenses repository.ExpenseRepository,
	appointments repository.AppointmentRepository,
	pending PendingCounter,
) *Service {
	return &Service{
		patients:     patients,
		visits:       visits,
		expenses:     expenses,
		appointments: appointments,
		pending:      pending,
	}
}

func (s *Service) GetStats(ctx context.Context, sc *session.Scope) (*model.DashboardStats, error) {
	stats := &model.DashboardStats{}
	if sc == nil {
		return stats, nil
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	patients, err := s.patients.List(ctx, sc.ClinicID, nil)
	if err != nil {
		return nil, apperrors.Upstream("list patients", err)
	}
	stats.TotalPatients = len(patients)

	monthVisits, err := s.visits.List(ctx, sc.ClinicID, &model.VisitFilters{From: monthStart})
	if err != nil {
		return nil, apperrors.Upstream("list visits", err)
	}
	for _, v := range monthVisits {
		stats.MonthIncome += v.Fee
		if !v.VisitDate.Before(dayStart) {
			stats.VisitsToday++
			stats.TodayIncome += v.Fee
		}
	}

	monthExpenses, err := s.expenses.List(ctx, sc.ClinicID, &model.ExpenseFilters{From: monthStart})
	if err != nil {
		return nil, apperrors.Upstream("list expenses", err)
	}
	for _, e := range monthExpenses {
		stats.MonthExpenses += e.Amount
	}
	stats.MonthNet = stats.MonthIncome - stats.MonthExpenses

	upcoming, err := s.appointments.List(ctx, sc.ClinicID, &model.AppointmentFilters{
		Status: model.AppointmentScheduled,
		From:   now,
	})
	if err != nil {
		return nil, apperrors.Upstream("list appointments", err)
	}
	stats.UpcomingBookings = len(upcoming)

	if s.pending != nil {
		stats.PendingSyncOps = s.pending.Pending()
	}
	return stats, nil
}

// GetTrends groups income, expenses and visit counts per day over the
// last `days` days, plus expense totals per category.
func (s *Service) GetTrends(ctx context.Context, sc *session.Scope, days int) (*model.DashboardTrends, error) {
	if days <= 0 {
		days = 30
	}
	trends := &model.DashboardTrends{
		Days:       []model.TrendPoint{},
		ByCategory: map[string]float64{},
	}
	if sc == nil {
		return trends, nil
	}

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -(days - 1))

	visits, err := s.visits.List(ctx, sc.ClinicID, &model.VisitFilters{From: from})
	if err != nil {
		return nil, apperrors.Upstream("list visits", err)
	}
	expenses, err := s.expenses.List(ctx, sc.ClinicID, &model.ExpenseFilters{From: from})
	if err != nil {
		return nil, apperrors.Upstream("list expenses", err)
	}

	points := make(map[string]*model.TrendPoint, days)
	order := make([]string, 0, days)
	for i := 0; i < days; i++ {
		day := from.AddDate(0, 0, i).Format("2006-01-02")
		points[day] = &model.TrendPoint{Day: day}
		order = append(order, day)
	}

	for _, v := range visits {
		if p, ok := points[v.VisitDate.Format("2006-01-02")]; ok {
			p.Income += v.Fee
			p.Visits++
		}
	}
	for _, e := range expenses {
		if p, ok := points[e.ExpenseDate.Format("2006-01-02")]; ok {
			p.Expenses += e.Amount
		}
		category := e.Category
		if category == "" {
			category = model.ExpenseCategoryOther
		}
		trends.ByCategory[category] += e.Amount
	}

	for _, day := range order {
		trends.Days = append(trends.Days, *points[day])
	}
	return trends, nil
}
