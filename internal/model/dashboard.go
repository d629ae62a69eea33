package model

// DashboardStats is a pure derived view over a clinic's rows. Every
// numeric field is zero, never absent, when the clinic has no data.
type DashboardStats struct {
	TotalPatients     int     `json:"total_patients"`
	VisitsToday       int     `json:"visits_today"`
	TodayIncome       float64 `json:"today_income"`
	MonthIncome       float64 `json:"month_income"`
	MonthExpenses     float64 `json:"month_expenses"`
	MonthNet          float64 `json:"month_net"`
	UpcomingBookings  int     `json:"upcoming_bookings"`
	PendingSyncOps    int     `json:"pending_sync_ops"`
}

// TrendPoint is one day's totals in a trend breakdown.
type TrendPoint struct {
	Day      string  `json:"day"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Visits   int     `json:"visits"`
}

// DashboardTrends groups income/expense/visit totals per day and expense
// totals per category over a requested period.
type DashboardTrends struct {
	Days       []TrendPoint       `json:"days"`
	ByCategory map[string]float64 `json:"by_category"`
}
