package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pennywise/pennywise/pkg/period"
	"github.com/pennywise/pennywise/pkg/summary"
)

func monthQuery(month period.Month) url.Values {
	if month.IsZero() {
		return nil
	}
	return url.Values{"month": []string{month.String()}}
}

// Summary fetches the summary of month; the zero month asks for the current one.
func (c *Client) Summary(ctx context.Context, month period.Month) (summary.FinancialSummary, error) {
	var dto summary.FinancialSummaryDTO
	if err := c.getJSON(ctx, "/summary/", monthQuery(month), &dto); err != nil {
		return summary.FinancialSummary{}, err
	}
	return summary.DTOToSummary(dto)
}

func (c *Client) SummaryCSV(ctx context.Context, month period.Month) (string, error) {
	body, err := c.raw(ctx, request{method: http.MethodGet, path: "/summary/", query: monthQuery(month), accept: "text/csv"})
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Chart downloads the named dashboard chart as an SVG document.
func (c *Client) Chart(ctx context.Context, name summary.ChartName, month period.Month) ([]byte, error) {
	return c.raw(ctx, request{
		method: http.MethodGet,
		path:   "/summary/charts/" + string(name) + ".svg",
		query:  monthQuery(month),
		accept: "image/svg+xml",
	})
}
