package model

import (
	"time"
)

// Expense categories are free text by convention; these are the ones the
// dashboard groups by.
const (
	ExpenseCategoryRent      = "rent"
	ExpenseCategorySalary    = "salary"
	ExpenseCategorySupplies  = "supplies"
	ExpenseCategoryEquipment = "equipment"
	ExpenseCategoryOther     = "other"
)

type Expense struct {
	Base
	Amount      float64    `json:"amount" db:"amount"`
	Category    string     `json:"category" db:"category"`
	Description string     `json:"description" db:"description"`
	ExpenseDate time.Time  `json:"expense_date" db:"expense_date"`
	Mode        DoctorMode `json:"mode" db:"mode"`
}

type CreateExpenseRequest struct {
	Amount      float64    `json:"amount" validate:"required,money"`
	Category    string     `json:"category" validate:"required,max=100"`
	Description string     `json:"description" validate:"max=1000"`
	ExpenseDate time.Time  `json:"date" validate:"required,notfuture"`
	Mode        DoctorMode `json:"mode" validate:"required,oneof=general gynecology"`
}

type UpdateExpenseRequest struct {
	Amount      *float64   `json:"amount" validate:"omitempty,money"`
	Category    *string    `json:"category" validate:"omitempty,max=100"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	ExpenseDate *time.Time `json:"date" validate:"omitempty,notfuture"`
}

type ExpenseFilters struct {
	Mode     DoctorMode `form:"mode"`
	Category string     `form:"category"`
	From     time.Time  `form:"from"`
	To       time.Time  `form:"to"`
}
