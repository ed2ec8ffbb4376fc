package chart

import (
	"github.com/shopspring/decimal"
)

// Palette lists slice colours in slice order. It wraps around when a chart has more slices.
type Palette []string

var (
	IncomeExpensePalette = Palette{"#4CAF50", "#f44336"}
	BudgetActualPalette  = Palette{"#2196F3", "#FF9800"}
)

const neutralColor = "#BDBDBD"

// Datum is one named value fed into a chart.
type Datum struct {
	Label string
	Value decimal.Decimal
}

type Slice struct {
	Label string
	// Value is the magnitude of the input value.
	Value    decimal.Decimal
	Color    string
	Fraction float64
}

// Pie is an immutable proportion chart. Renderers draw it from scratch every time.
type Pie struct {
	Title  string
	Slices []Slice
	Total  decimal.Decimal
}

// NewPie sizes every slice by the magnitude of its value. When all values are zero the chart is empty
// and carries no slices.
func NewPie(title string, palette Palette, data ...Datum) Pie {
	pie := Pie{Title: title, Total: decimal.Zero}
	for _, d := range data {
		pie.Total = pie.Total.Add(d.Value.Abs())
	}
	if pie.Total.IsZero() {
		return pie
	}

	pie.Slices = make([]Slice, 0, len(data))
	for i, d := range data {
		magnitude := d.Value.Abs()
		fraction, _ := magnitude.Div(pie.Total).Float64()
		pie.Slices = append(pie.Slices, Slice{
			Label:    d.Label,
			Value:    magnitude,
			Color:    palette.color(i),
			Fraction: fraction,
		})
	}
	return pie
}

func (p Pie) Empty() bool {
	return len(p.Slices) == 0
}

// Percentages returns each slice's share rounded to whole percents, adjusted so they add up to 100.
func (p Pie) Percentages() []int {
	fractions := make([]float64, len(p.Slices))
	for i, s := range p.Slices {
		fractions[i] = s.Fraction
	}
	return apportion(fractions, 100)
}

func (pl Palette) color(i int) string {
	if len(pl) == 0 {
		return neutralColor
	}
	return pl[i%len(pl)]
}

// apportion splits total units between fractions with the largest remainder method.
func apportion(fractions []float64, total int) []int {
	units := make([]int, len(fractions))
	if len(fractions) == 0 {
		return units
	}
	remainders := make([]float64, len(fractions))
	assigned := 0
	for i, f := range fractions {
		exact := f * float64(total)
		units[i] = int(exact)
		remainders[i] = exact - float64(units[i])
		assigned += units[i]
	}
	for assigned < total {
		best := 0
		for i := range remainders {
			if remainders[i] > remainders[best] {
				best = i
			}
		}
		if remainders[best] <= 0 {
			break
		}
		units[best]++
		remainders[best] = 0
		assigned++
	}
	return units
}
