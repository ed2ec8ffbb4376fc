package chart

import (
	"fmt"
	"html"
	"io"
	"math"
	"strings"
)

// SVGRenderer draws a pie with a legend below it.
type SVGRenderer struct {
	Size int
}

func NewSVGRenderer() SVGRenderer {
	return SVGRenderer{Size: 240}
}

func (r SVGRenderer) Render(w io.Writer, p Pie) error {
	size := r.Size
	if size <= 0 {
		size = 240
	}
	radius := float64(size)/2 - 4
	cx, cy := float64(size)/2, float64(size)/2+24
	legendTop := size + 40
	height := legendTop + 20*max(len(p.Slices), 1) + 8

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, size, height, size, height)
	fmt.Fprintf(&sb, `<title>%s</title>`, html.EscapeString(p.Title))
	fmt.Fprintf(&sb, `<text x="%d" y="16" text-anchor="middle" font-family="sans-serif" font-size="14">%s</text>`,
		size/2, html.EscapeString(p.Title))

	if p.Empty() {
		fmt.Fprintf(&sb, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`, cx, cy, radius, neutralColor)
		fmt.Fprintf(&sb, `<text x="4" y="%d" font-family="sans-serif" font-size="12">No data</text>`, legendTop+12)
		sb.WriteString(`</svg>`)
		_, err := io.WriteString(w, sb.String())
		return err
	}

	angle := -math.Pi / 2
	for _, s := range p.Slices {
		if s.Fraction <= 0 {
			continue
		}
		if s.Fraction >= 1 {
			fmt.Fprintf(&sb, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`, cx, cy, radius, s.Color)
			break
		}
		end := angle + 2*math.Pi*s.Fraction
		largeArc := 0
		if s.Fraction > 0.5 {
			largeArc = 1
		}
		fmt.Fprintf(&sb, `<path d="M %.2f %.2f L %.2f %.2f A %.2f %.2f 0 %d 1 %.2f %.2f Z" fill="%s"/>`,
			cx, cy,
			cx+radius*math.Cos(angle), cy+radius*math.Sin(angle),
			radius, radius, largeArc,
			cx+radius*math.Cos(end), cy+radius*math.Sin(end),
			s.Color)
		angle = end
	}

	percentages := p.Percentages()
	for i, s := range p.Slices {
		y := legendTop + 20*i
		fmt.Fprintf(&sb, `<rect x="4" y="%d" width="12" height="12" fill="%s"/>`, y, s.Color)
		fmt.Fprintf(&sb, `<text x="22" y="%d" font-family="sans-serif" font-size="12">%s: %s (%d%%)</text>`,
			y+11, html.EscapeString(s.Label), s.Value.StringFixed(2), percentages[i])
	}
	sb.WriteString(`</svg>`)

	_, err := io.WriteString(w, sb.String())
	return err
}
