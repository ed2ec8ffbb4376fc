package summary

import (
	"bytes"
	"encoding/csv"

	log "github.com/sirupsen/logrus"
)

type Renderer interface {
	RenderSummary(summary FinancialSummary) (string, error)
}

type CsvSummaryRendererImpl struct {
}

func NewCsvSummaryRenderer() *CsvSummaryRendererImpl {
	return &CsvSummaryRendererImpl{}
}

// RenderSummary writes one row per category followed by a totals row.
func (r *CsvSummaryRendererImpl) RenderSummary(summary FinancialSummary) (string, error) {
	data := make([][]string, 0, len(summary.ByCategory)+2)
	data = append(data, []string{"Category", "Budget", "Actual", "Delta"})
	for _, c := range summary.ByCategory {
		data = append(data, []string{
			c.Category,
			c.Budget.StringFixed(2),
			c.Actual.StringFixed(2),
			c.Delta.StringFixed(2),
		})
	}
	data = append(data, []string{
		"Total",
		summary.MonthlyBudget.StringFixed(2),
		summary.TotalExpenses.StringFixed(2),
		summary.BudgetVsActual.StringFixed(2),
	})

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}
