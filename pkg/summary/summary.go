package summary

import (
	"cmp"
	"slices"

	"github.com/pennywise/pennywise/pkg/budget"
	"github.com/pennywise/pennywise/pkg/category"
	"github.com/pennywise/pennywise/pkg/chart"
	"github.com/pennywise/pennywise/pkg/period"
	"github.com/pennywise/pennywise/pkg/transaction"
	"github.com/shopspring/decimal"
)

// FinancialSummary is derived from a month of transactions and budgets. It is never stored.
type FinancialSummary struct {
	Month         period.Month
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Balance       decimal.Decimal
	MonthlyBudget decimal.Decimal
	// BudgetVsActual is MonthlyBudget minus TotalExpenses.
	BudgetVsActual decimal.Decimal
	ByCategory     []CategorySummary
}

type CategorySummary struct {
	CategoryId int
	Category   string
	Budget     decimal.Decimal
	Actual     decimal.Decimal
	// Delta is Budget minus Actual; negative when the category is over budget.
	Delta decimal.Decimal
}

// Compute aggregates the transactions dated inside month and the budgets set for month.
// Records outside the month are ignored. Amounts are summed as given.
func Compute(month period.Month, transactions []transaction.Transaction, budgets []budget.Budget) FinancialSummary {
	s := FinancialSummary{
		Month:          month,
		TotalIncome:    decimal.Zero,
		TotalExpenses:  decimal.Zero,
		Balance:        decimal.Zero,
		MonthlyBudget:  decimal.Zero,
		BudgetVsActual: decimal.Zero,
		ByCategory:     []CategorySummary{},
	}

	byCategory := make(map[int]*CategorySummary)
	categoryOf := func(id int, name string) *CategorySummary {
		c, ok := byCategory[id]
		if !ok {
			c = &CategorySummary{CategoryId: id, Category: name, Budget: decimal.Zero, Actual: decimal.Zero}
			byCategory[id] = c
		}
		return c
	}

	for _, t := range transactions {
		if !month.Contains(t.Date) {
			continue
		}
		switch t.Type {
		case category.Income:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		case category.Expense:
			s.TotalExpenses = s.TotalExpenses.Add(t.Amount)
			c := categoryOf(t.CategoryId, t.CategoryName)
			c.Actual = c.Actual.Add(t.Amount)
		}
	}

	for _, b := range budgets {
		if b.Month != month {
			continue
		}
		s.MonthlyBudget = s.MonthlyBudget.Add(b.Amount)
		c := categoryOf(b.CategoryId, b.CategoryName)
		c.Budget = c.Budget.Add(b.Amount)
	}

	s.Balance = s.TotalIncome.Sub(s.TotalExpenses)
	s.BudgetVsActual = s.MonthlyBudget.Sub(s.TotalExpenses)

	for _, c := range byCategory {
		c.Delta = c.Budget.Sub(c.Actual)
		s.ByCategory = append(s.ByCategory, *c)
	}
	slices.SortFunc(s.ByCategory, func(a, b CategorySummary) int {
		return cmp.Or(cmp.Compare(a.Category, b.Category), cmp.Compare(a.CategoryId, b.CategoryId))
	})

	return s
}

type ChartName string

const (
	IncomeExpenseChartName ChartName = "income-expenses"
	BudgetActualChartName  ChartName = "budget-actual"
)

func IncomeExpenseChart(s FinancialSummary) chart.Pie {
	return chart.NewPie("Income vs Expenses", chart.IncomeExpensePalette,
		chart.Datum{Label: "Income", Value: s.TotalIncome},
		chart.Datum{Label: "Expenses", Value: s.TotalExpenses},
	)
}

func BudgetActualChart(s FinancialSummary) chart.Pie {
	return chart.NewPie("Budget vs Actual", chart.BudgetActualPalette,
		chart.Datum{Label: "Budget", Value: s.MonthlyBudget},
		chart.Datum{Label: "Actual", Value: s.TotalExpenses},
	)
}

// ChartFor builds the named dashboard chart.
func ChartFor(name ChartName, s FinancialSummary) (chart.Pie, bool) {
	switch name {
	case IncomeExpenseChartName:
		return IncomeExpenseChart(s), true
	case BudgetActualChartName:
		return BudgetActualChart(s), true
	default:
		return chart.Pie{}, false
	}
}
