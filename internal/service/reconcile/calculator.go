// Package reconcile computes the cash-drawer reconciliation for a closed
// shift from the figures the cashier declared.
package reconcile

import (
	"github.com/shopspring/decimal"

	"reportbot/internal/domain/models"
)

// Input is the set of declared figures the reconciliation runs on.
type Input struct {
	TotalRevenue       decimal.Decimal
	Returns            decimal.Decimal
	IncomeEntries      []models.IncomeEntry
	ExpenseEntries     []models.ExpenseEntry
	Acquiring          decimal.Decimal
	QRCode             decimal.Decimal
	OnlineApp          decimal.Decimal
	YandexFood         decimal.Decimal
	YandexFoodNoSystem decimal.Decimal
	Primehill          decimal.Decimal
	FactCash           decimal.Decimal
}

// Result holds the five derived fields stored on the report. All values are
// whole currency units. A negative SurplusShortage is a shortfall, not an
// error.
type Result struct {
	TotalIncome      decimal.Decimal
	TotalExpenses    decimal.Decimal
	TotalAcquiring   decimal.Decimal
	CalculatedAmount decimal.Decimal
	SurplusShortage  decimal.Decimal
}

// Calculate derives the reconciliation figures. It is a pure function: no
// I/O, no mutation of its input, total over the numeric domain.
//
// Each output is summed at full precision and rounded to whole units exactly
// once, so rounding error never compounds across fields. Because the income,
// expense and acquiring totals are already whole when the calculated amount
// is rounded, the identity
//
//	calculated = revenue − returns + income − expenses − acquiring
//
// holds exactly over the rounded values.
func Calculate(in Input) Result {
	totalIncome := decimal.Zero
	for _, entry := range in.IncomeEntries {
		totalIncome = totalIncome.Add(entry.Amount)
	}
	totalIncome = totalIncome.Round(0)

	totalExpenses := decimal.Zero
	for _, entry := range in.ExpenseEntries {
		totalExpenses = totalExpenses.Add(entry.Amount)
	}
	totalExpenses = totalExpenses.Round(0)

	totalAcquiring := in.Acquiring.
		Add(in.QRCode).
		Add(in.OnlineApp).
		Add(in.YandexFood).
		Add(in.YandexFoodNoSystem).
		Add(in.Primehill).
		Round(0)

	calculated := in.TotalRevenue.
		Sub(in.Returns).
		Add(totalIncome).
		Sub(totalExpenses).
		Sub(totalAcquiring).
		Round(0)

	surplus := in.FactCash.Sub(calculated).Round(0)

	return Result{
		TotalIncome:      totalIncome,
		TotalExpenses:    totalExpenses,
		TotalAcquiring:   totalAcquiring,
		CalculatedAmount: calculated,
		SurplusShortage:  surplus,
	}
}
