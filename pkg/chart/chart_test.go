package chart

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(label string, value int64) Datum {
	return Datum{Label: label, Value: decimal.NewFromInt(value)}
}

func TestNewPie(t *testing.T) {
	t.Run("should size slices by magnitude", func(t *testing.T) {
		pie := NewPie("Income vs Expenses", IncomeExpensePalette, d("Income", 75), d("Expenses", -25))

		require.Len(t, pie.Slices, 2)
		assert.InDelta(t, 0.75, pie.Slices[0].Fraction, 1e-9)
		assert.InDelta(t, 0.25, pie.Slices[1].Fraction, 1e-9)
		assert.True(t, decimal.NewFromInt(25).Equal(pie.Slices[1].Value))
		assert.Equal(t, "#4CAF50", pie.Slices[0].Color)
		assert.Equal(t, "#f44336", pie.Slices[1].Color)
		assert.Equal(t, []int{75, 25}, pie.Percentages())
	})

	t.Run("should be empty when all values are zero", func(t *testing.T) {
		pie := NewPie("Budget vs Actual", BudgetActualPalette, d("Budget", 0), d("Actual", 0))

		assert.True(t, pie.Empty())
		assert.True(t, pie.Total.IsZero())
	})

	t.Run("should wrap the palette", func(t *testing.T) {
		pie := NewPie("three", Palette{"#111111", "#222222"}, d("a", 1), d("b", 1), d("c", 1))

		assert.Equal(t, "#111111", pie.Slices[2].Color)
		assert.Equal(t, 100, sum(pie.Percentages()))
	})
}

func TestApportion(t *testing.T) {
	assert.Equal(t, []int{34, 33, 33}, apportion([]float64{1.0 / 3, 1.0 / 3, 1.0 / 3}, 100))
	assert.Equal(t, []int{10, 0}, apportion([]float64{1, 0}, 10))
	assert.Empty(t, apportion(nil, 10))
}

func TestSVGRenderer_Render(t *testing.T) {
	t.Run("should draw one path per slice and a legend", func(t *testing.T) {
		var buf bytes.Buffer
		pie := NewPie("Income <vs> Expenses", IncomeExpensePalette, d("Income", 50000), d("Expenses", 17500))

		err := NewSVGRenderer().Render(&buf, pie)

		require.NoError(t, err)
		out := buf.String()
		assert.True(t, strings.HasPrefix(out, "<svg"))
		assert.Equal(t, 2, strings.Count(out, "<path"))
		assert.Contains(t, out, `fill="#4CAF50"`)
		assert.Contains(t, out, "Income: 50000.00 (74%)")
		assert.Contains(t, out, "Income &lt;vs&gt; Expenses")
	})

	t.Run("should draw a full circle for a single slice", func(t *testing.T) {
		var buf bytes.Buffer
		pie := NewPie("Budget vs Actual", BudgetActualPalette, d("Budget", 100), d("Actual", 0))

		require.NoError(t, NewSVGRenderer().Render(&buf, pie))

		assert.Equal(t, 0, strings.Count(buf.String(), "<path"))
		assert.Contains(t, buf.String(), `<circle`)
		assert.Contains(t, buf.String(), `fill="#2196F3"`)
	})

	t.Run("should draw the neutral state for an empty chart", func(t *testing.T) {
		var buf bytes.Buffer

		require.NoError(t, NewSVGRenderer().Render(&buf, NewPie("Empty", IncomeExpensePalette)))

		assert.Contains(t, buf.String(), "No data")
		assert.Contains(t, buf.String(), neutralColor)
	})
}

func TestTerminalRenderer_Render(t *testing.T) {
	var buf bytes.Buffer
	pie := NewPie("Budget vs Actual", BudgetActualPalette, d("Budget", 300), d("Actual", 100))

	err := TerminalRenderer{Width: 20}.Render(&buf, pie)

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Budget vs Actual")
	assert.Contains(t, out, "Budget 300.00 (75%)")
	assert.Contains(t, out, "Actual 100.00 (25%)")
	assert.Equal(t, 20, strings.Count(out, "█"))

	buf.Reset()
	require.NoError(t, NewTerminalRenderer().Render(&buf, NewPie("Nothing", BudgetActualPalette)))
	assert.Contains(t, buf.String(), "No data")
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
