package summary

import (
	"testing"

	"github.com/pennywise/pennywise/pkg/budget"
	"github.com/pennywise/pennywise/pkg/category"
	"github.com/pennywise/pennywise/pkg/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCsvSummaryRendererImpl_RenderSummary(t *testing.T) {
	tests := []struct {
		name    string
		summary FinancialSummary
		want    string
	}{
		{
			name: "categories and totals",
			summary: Compute(march,
				[]transaction.Transaction{
					tx(1, "Salary", "3000", category.Income, "2024-03-01"),
					tx(2, "Groceries", "120.5", category.Expense, "2024-03-02"),
					tx(3, "Eating, out", "40", category.Expense, "2024-03-03"),
				},
				[]budget.Budget{bud(2, "Groceries", "100", march)},
			),
			want: "Category,Budget,Actual,Delta\n" +
				"\"Eating, out\",0.00,40.00,-40.00\n" +
				"Groceries,100.00,120.50,-20.50\n" +
				"Total,100.00,160.50,-60.50\n",
		},
		{
			name:    "empty month",
			summary: Compute(march, nil, nil),
			want:    "Category,Budget,Actual,Delta\nTotal,0.00,0.00,0.00\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewCsvSummaryRenderer().RenderSummary(tt.summary)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
