package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pennywise/pennywise/pkg/chart"
	"github.com/pennywise/pennywise/pkg/page"
	"github.com/pennywise/pennywise/pkg/period"
	"github.com/pennywise/pennywise/pkg/summary"
	"github.com/spf13/cobra"
)

func summaryCmd(app *App) *cobra.Command {
	var month, svgChart, output string
	var asCSV bool
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarise a month against its budget",
		Long: `Shows income, expenses and balance of a month, the budget of every category
next to what was spent, and two charts. Without --month the current month is shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			api, err := app.authenticated()
			if err != nil {
				return err
			}
			var m period.Month
			if month != "" {
				if m, err = period.ParseMonth(month); err != nil {
					return err
				}
			}

			switch {
			case asCSV:
				csv, err := api.SummaryCSV(ctx, m)
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(app.out, csv)
				return err
			case svgChart != "":
				svg, err := api.Chart(ctx, summary.ChartName(svgChart), m)
				if err != nil {
					return err
				}
				if output == "" || output == "-" {
					_, err = app.out.Write(svg)
					return err
				}
				if err := os.WriteFile(output, svg, 0o644); err != nil {
					return fmt.Errorf("failed to write chart: %w", err)
				}
				app.println(SuccessStyle.Render(fmt.Sprintf("Chart written to %s", output)))
				return nil
			}

			dashboard := page.NewDashboard(api)
			if err := dashboard.Refresh(ctx, m); err != nil {
				return err
			}
			return printDashboard(app, dashboard)
		},
	}
	cmd.Flags().StringVarP(&month, "month", "m", "", "month, YYYY-MM (default this month)")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "print the per-category summary as CSV")
	cmd.Flags().StringVar(&svgChart, "svg", "", "download a chart as SVG: income-expenses or budget-actual")
	cmd.Flags().StringVar(&output, "output", "", "file to write the SVG chart to (default stdout)")
	cmd.MarkFlagsMutuallyExclusive("csv", "svg")
	return cmd
}

func printDashboard(app *App, dashboard *page.Dashboard) error {
	s := dashboard.Summary()

	totals := [][2]string{
		{"Income", s.TotalIncome.StringFixed(2)},
		{"Expenses", s.TotalExpenses.StringFixed(2)},
		{"Balance", s.Balance.StringFixed(2)},
		{"Budget", s.MonthlyBudget.StringFixed(2)},
		{"Budget vs actual", s.BudgetVsActual.StringFixed(2)},
	}
	lines := []string{TitleStyle.Render("Summary of " + s.Month.String())}
	for _, t := range totals {
		lines = append(lines, fmt.Sprintf("%-18s%12s", t[0], t[1]))
	}
	app.println(CardStyle.Render(strings.Join(lines, "\n")))

	if len(s.ByCategory) > 0 {
		rows := make([][]string, 0, len(s.ByCategory))
		for _, c := range s.ByCategory {
			delta := c.Delta.StringFixed(2)
			if c.Delta.IsNegative() {
				delta = ErrorStyle.Render(delta)
			}
			rows = append(rows, []string{c.Category, c.Budget.StringFixed(2), c.Actual.StringFixed(2), delta})
		}
		if err := renderTable(app.out, []string{"Category", "Budget", "Actual", "Delta"}, rows); err != nil {
			return err
		}
	}

	incomeExpense, budgetActual := dashboard.Charts()
	renderer := chart.NewTerminalRenderer()
	var left, right strings.Builder
	if err := renderer.Render(&left, incomeExpense); err != nil {
		return err
	}
	if err := renderer.Render(&right, budgetActual); err != nil {
		return err
	}
	app.println(lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().MarginRight(4).Render(strings.TrimRight(left.String(), "\n")),
		strings.TrimRight(right.String(), "\n")))
	return nil
}
