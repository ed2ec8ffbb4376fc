package page

import (
	"context"
	"fmt"
	"sync"

	"github.com/pennywise/pennywise/pkg/chart"
	"github.com/pennywise/pennywise/pkg/period"
	"github.com/pennywise/pennywise/pkg/summary"
)

type SummaryAPI interface {
	Summary(ctx context.Context, month period.Month) (summary.FinancialSummary, error)
}

// Dashboard shows the summary of a month with its two charts.
type Dashboard struct {
	api SummaryAPI

	mu            sync.Mutex
	summary       summary.FinancialSummary
	incomeExpense chart.Pie
	budgetActual  chart.Pie
	err           error
}

func NewDashboard(api SummaryAPI) *Dashboard {
	return &Dashboard{api: api}
}

// Refresh fetches the summary of month, the current month when zero, and rebuilds both charts.
// On failure the previous summary and charts are kept.
func (d *Dashboard) Refresh(ctx context.Context, month period.Month) error {
	s, err := d.api.Summary(ctx, month)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.err = fmt.Errorf("failed to load summary: %w", err)
		return d.err
	}
	d.summary = s
	d.incomeExpense = summary.IncomeExpenseChart(s)
	d.budgetActual = summary.BudgetActualChart(s)
	d.err = nil
	return nil
}

func (d *Dashboard) Summary() summary.FinancialSummary {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.summary
}

// Charts returns the income vs expenses and the budget vs actual charts.
func (d *Dashboard) Charts() (chart.Pie, chart.Pie) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.incomeExpense, d.budgetActual
}

func (d *Dashboard) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

func (d *Dashboard) DismissError() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = nil
}
