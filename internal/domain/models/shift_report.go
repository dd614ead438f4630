package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Shift type values accepted across all report forms.
const (
	ShiftMorning = "morning"
	ShiftNight   = "night"
)

// Delivery status of a shift report. A report starts as draft and becomes
// sent only after a confirmed Telegram delivery; it never moves back.
const (
	StatusDraft = "draft"
	StatusSent  = "sent"
)

// IncomeEntry is a single cash-in declared by the cashier.
type IncomeEntry struct {
	Amount  decimal.Decimal `json:"amount"`
	Comment string          `json:"comment"`
}

// ExpenseEntry is a single cash-out declared by the cashier.
type ExpenseEntry struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// IncomeEntries is stored as a JSON column.
type IncomeEntries []IncomeEntry

func (e *IncomeEntries) Scan(value interface{}) error {
	*e = IncomeEntries{}
	return scanJSON(value, e)
}

func (e IncomeEntries) Value() (driver.Value, error) {
	if e == nil {
		return "[]", nil
	}
	return json.Marshal(e)
}

// ExpenseEntries is stored as a JSON column.
type ExpenseEntries []ExpenseEntry

func (e *ExpenseEntries) Scan(value interface{}) error {
	*e = ExpenseEntries{}
	return scanJSON(value, e)
}

func (e ExpenseEntries) Value() (driver.Value, error) {
	if e == nil {
		return "[]", nil
	}
	return json.Marshal(e)
}

// ShiftReport is the cash-drawer reconciliation report a cashier files when
// closing a shift. The five derived fields are computed once at creation and
// are never recalculated afterwards.
type ShiftReport struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Location    string    `gorm:"size:255;not null" json:"location"`
	ShiftType   string    `gorm:"size:20;not null" json:"shift_type"`
	CashierName string    `gorm:"size:255;not null" json:"cashier_name"`
	Date        time.Time `gorm:"not null" json:"date"`

	IncomeEntries  IncomeEntries  `gorm:"type:jsonb" json:"income_entries"`
	ExpenseEntries ExpenseEntries `gorm:"type:jsonb" json:"expense_entries"`

	TotalRevenue       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_revenue"`
	Returns            decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"returns"`
	Acquiring          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"acquiring"`
	QRCode             decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"qr_code"`
	OnlineApp          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"online_app"`
	YandexFood         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"yandex_food"`
	YandexFoodNoSystem decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"yandex_food_no_system"`
	Primehill          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"primehill"`
	FactCash           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"fact_cash"`

	// Derived by the reconciliation calculator.
	TotalIncome      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_income"`
	TotalExpenses    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_expenses"`
	TotalAcquiring   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_acquiring"`
	CalculatedAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"calculated_amount"`
	SurplusShortage  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"surplus_shortage"`

	PhotoPath string  `gorm:"type:text;not null" json:"photo_path"`
	Comments  *string `gorm:"type:text" json:"comments"`
	Status    string  `gorm:"size:20;not null;default:draft" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// CreateShiftReport carries the validated form input for a new shift report.
// Entry amounts have already been checked for positivity by the handler.
type CreateShiftReport struct {
	Location           string
	ShiftType          string
	CashierName        string
	IncomeEntries      []IncomeEntry
	ExpenseEntries     []ExpenseEntry
	TotalRevenue       decimal.Decimal
	Returns            decimal.Decimal
	Acquiring          decimal.Decimal
	QRCode             decimal.Decimal
	OnlineApp          decimal.Decimal
	YandexFood         decimal.Decimal
	YandexFoodNoSystem decimal.Decimal
	Primehill          decimal.Decimal
	FactCash           decimal.Decimal
	Comments           *string
}
