package summary

import (
	"bytes"
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pennywise/pennywise/internal/rest"
	"github.com/pennywise/pennywise/pkg/chart"
	"github.com/pennywise/pennywise/pkg/period"
	"github.com/pennywise/pennywise/pkg/user"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type FinancialSummaryDTO struct {
	Month          string               `json:"month"`
	TotalIncome    decimal.Decimal      `json:"total_income"`
	TotalExpenses  decimal.Decimal      `json:"total_expenses"`
	Balance        decimal.Decimal      `json:"balance"`
	MonthlyBudget  decimal.Decimal      `json:"monthly_budget"`
	BudgetVsActual decimal.Decimal      `json:"budget_vs_actual"`
	ByCategory     []CategorySummaryDTO `json:"by_category"`
}

type CategorySummaryDTO struct {
	CategoryId int             `json:"category_id"`
	Category   string          `json:"category"`
	Budget     decimal.Decimal `json:"budget"`
	Actual     decimal.Decimal `json:"actual"`
	Delta      decimal.Decimal `json:"delta"`
}

type Handler struct {
	summaryService Service
	csvRenderer    Renderer
	svgRenderer    chart.SVGRenderer
}

func NewHandler(summaryService Service, csvRenderer Renderer) *Handler {
	return &Handler{
		summaryService: summaryService,
		csvRenderer:    csvRenderer,
		svgRenderer:    chart.NewSVGRenderer(),
	}
}

// GetSummary godoc
// @Summary Get the financial summary of a month
// @Description Returns CSV instead of JSON when requested with Accept: text/csv
// @Tags Summary
// @Produce json
// @Produce text/csv
// @Param month query string false "YYYY-MM, defaults to the current month"
// @Success 200 {object} FinancialSummaryDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/summary/ [get]
// @Security Bearer
func (handler *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting summary")

	summary, ok := handler.load(w, r)
	if !ok {
		return
	}

	if acceptsCSV(r) {
		csv, err := handler.csvRenderer.RenderSummary(summary)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(csv)); err != nil {
			log.Errorf("failed to write csv summary: %v", err)
		}
		return
	}
	rest.WriteJSON(w, http.StatusOK, SummaryToDTO(summary))
}

// acceptsCSV reports whether any Accept entry names text/csv with a non-zero quality.
func acceptsCSV(r *http.Request) bool {
	for _, header := range r.Header.Values("Accept") {
		for _, entry := range strings.Split(header, ",") {
			mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(entry))
			if err != nil || mediaType != "text/csv" {
				continue
			}
			if q, ok := params["q"]; ok && strings.Trim(q, "0.") == "" {
				continue
			}
			return true
		}
	}
	return false
}

// GetChart godoc
// @Summary Render a dashboard chart of a month
// @Tags Summary
// @Produce image/svg+xml
// @Param name path string true "income-expenses or budget-actual"
// @Param month query string false "YYYY-MM, defaults to the current month"
// @Success 200 {string} string "SVG document"
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/summary/charts/{name}.svg [get]
// @Security Bearer
func (handler *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	name := ChartName(mux.Vars(r)["name"])
	log.Debugf("Rendering chart %s", name)

	summary, ok := handler.load(w, r)
	if !ok {
		return
	}
	pie, found := ChartFor(name, summary)
	if !found {
		rest.WriteError(w, http.StatusNotFound, "Chart not found", string(name))
		return
	}

	var buf bytes.Buffer
	if err := handler.svgRenderer.Render(&buf, pie); err != nil {
		log.Errorf("failed to render chart %s: %v", name, err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal server error", "")
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Errorf("failed to write chart: %v", err)
	}
}

func (handler *Handler) load(w http.ResponseWriter, r *http.Request) (FinancialSummary, bool) {
	var month period.Month
	if v := r.URL.Query().Get("month"); v != "" {
		var err error
		if month, err = period.ParseMonth(v); err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid month format", "month must be YYYY-MM")
			return FinancialSummary{}, false
		}
	}
	summary, err := handler.summaryService.GetSummary(r.Context(), month)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			rest.WriteError(w, http.StatusUnauthorized, "Not authenticated", "")
			return FinancialSummary{}, false
		}
		log.Errorf("summary request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal server error", "")
		return FinancialSummary{}, false
	}
	return summary, true
}

func SummaryToDTO(s FinancialSummary) FinancialSummaryDTO {
	byCategory := make([]CategorySummaryDTO, 0, len(s.ByCategory))
	for _, c := range s.ByCategory {
		byCategory = append(byCategory, CategorySummaryDTO{
			CategoryId: c.CategoryId,
			Category:   c.Category,
			Budget:     c.Budget,
			Actual:     c.Actual,
			Delta:      c.Delta,
		})
	}
	return FinancialSummaryDTO{
		Month:          s.Month.FirstDay().Format(period.DateLayout),
		TotalIncome:    s.TotalIncome,
		TotalExpenses:  s.TotalExpenses,
		Balance:        s.Balance,
		MonthlyBudget:  s.MonthlyBudget,
		BudgetVsActual: s.BudgetVsActual,
		ByCategory:     byCategory,
	}
}

func DTOToSummary(dto FinancialSummaryDTO) (FinancialSummary, error) {
	month, err := period.ParseMonth(dto.Month)
	if err != nil {
		return FinancialSummary{}, err
	}
	byCategory := make([]CategorySummary, 0, len(dto.ByCategory))
	for _, c := range dto.ByCategory {
		byCategory = append(byCategory, CategorySummary{
			CategoryId: c.CategoryId,
			Category:   c.Category,
			Budget:     c.Budget,
			Actual:     c.Actual,
			Delta:      c.Delta,
		})
	}
	return FinancialSummary{
		Month:          month,
		TotalIncome:    dto.TotalIncome,
		TotalExpenses:  dto.TotalExpenses,
		Balance:        dto.Balance,
		MonthlyBudget:  dto.MonthlyBudget,
		BudgetVsActual: dto.BudgetVsActual,
		ByCategory:     byCategory,
	}, nil
}
