package budget

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/pennywise/pennywise/internal/rest"
	"github.com/pennywise/pennywise/pkg/period"
	"github.com/pennywise/pennywise/pkg/user"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type BudgetDTO struct {
	Id           int             `json:"id"`
	Category     int             `json:"category"`
	CategoryName string          `json:"category_name"`
	Amount       decimal.Decimal `json:"amount"`
	// Month is the first day of the month on output; YYYY-MM is accepted on input.
	Month     string    `json:"month"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BudgetHandler struct {
	budgetService BudgetService
}

func NewBudgetHandler(budgetService BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService}
}

// List godoc
// @Summary List the current user's budgets
// @Tags Budget
// @Produce json
// @Param category query int false "Category ID"
// @Param month query string false "YYYY-MM"
// @Param search query string false "Text in the category name"
// @Param ordering query string false "month, amount or created, prefixed with - for descending"
// @Success 200 {array} BudgetDTO
// @Router /api/budgets/ [get]
// @Security Bearer
func (handler *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	log.Trace("Listing budgets")

	filter, err := FilterFromQuery(r.URL.Query())
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid filter", err.Error())
		return
	}
	budgets, err := handler.budgetService.GetAll(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	budgetsDTO := make([]BudgetDTO, 0, len(budgets))
	for _, b := range budgets {
		budgetsDTO = append(budgetsDTO, BudgetToDTO(b))
	}
	rest.WriteJSON(w, http.StatusOK, budgetsDTO)
}

// Get godoc
// @Summary Get a budget
// @Tags Budget
// @Produce json
// @Param id path int true "Budget ID"
// @Success 200 {object} BudgetDTO
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/budgets/{id}/ [get]
// @Security Bearer
func (handler *BudgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(w, r)
	if !ok {
		return
	}
	b, err := handler.budgetService.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, BudgetToDTO(b))
}

// Create godoc
// @Summary Set a monthly budget for a category
// @Tags Budget
// @Accept json
// @Produce json
// @Param budget body BudgetDTO true "Budget"
// @Success 201 {object} BudgetDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 409 {object} rest.ErrorResponse "Budget for the category and month exists"
// @Router /api/budgets/ [post]
// @Security Bearer
func (handler *BudgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Registering new budget")

	b, ok := decodeBudget(w, r)
	if !ok {
		return
	}
	created, err := handler.budgetService.Create(r.Context(), b)
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, BudgetToDTO(created))
}

// Update godoc
// @Summary Replace a budget
// @Tags Budget
// @Accept json
// @Produce json
// @Param id path int true "Budget ID"
// @Param budget body BudgetDTO true "Budget"
// @Success 200 {object} BudgetDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Failure 409 {object} rest.ErrorResponse "Budget for the category and month exists"
// @Router /api/budgets/{id}/ [put]
// @Security Bearer
func (handler *BudgetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(w, r)
	if !ok {
		return
	}
	b, ok := decodeBudget(w, r)
	if !ok {
		return
	}
	b.Id = id
	updated, err := handler.budgetService.Update(r.Context(), b)
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, BudgetToDTO(updated))
}

// Delete godoc
// @Summary Delete a budget
// @Tags Budget
// @Param id path int true "Budget ID"
// @Success 204 "No Content"
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/budgets/{id}/ [delete]
// @Security Bearer
func (handler *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(w, r)
	if !ok {
		return
	}
	if err := handler.budgetService.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func FilterFromQuery(q url.Values) (Filter, error) {
	filter := Filter{Search: q.Get("search")}
	var err error
	if v := q.Get("category"); v != "" {
		if filter.CategoryId, err = strconv.Atoi(v); err != nil {
			return Filter{}, fmt.Errorf("invalid category %q", v)
		}
	}
	if v := q.Get("month"); v != "" {
		if filter.Month, err = period.ParseMonth(v); err != nil {
			return Filter{}, err
		}
	}
	if filter.Ordering, err = ParseOrdering(q.Get("ordering")); err != nil {
		return Filter{}, err
	}
	return filter, nil
}

func (f Filter) Query() url.Values {
	q := url.Values{}
	if f.CategoryId != 0 {
		q.Set("category", strconv.Itoa(f.CategoryId))
	}
	if !f.Month.IsZero() {
		q.Set("month", f.Month.String())
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Ordering.Field != "" {
		q.Set("ordering", f.Ordering.String())
	}
	return q
}

func decodeBudget(w http.ResponseWriter, r *http.Request) (Budget, bool) {
	var dto BudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return Budget{}, false
	}
	b, err := DTOToBudget(dto)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid budget", err.Error())
		return Budget{}, false
	}
	return b, true
}

func pathId(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid budget id", "")
		return 0, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBudgetInvalid):
		rest.WriteError(w, http.StatusBadRequest, "Invalid budget", err.Error())
	case errors.Is(err, ErrUnknownCategory):
		rest.WriteError(w, http.StatusBadRequest, "Invalid budget", "category does not exist")
	case errors.Is(err, ErrBudgetNotFound):
		rest.WriteError(w, http.StatusNotFound, "Budget not found", "")
	case errors.Is(err, ErrBudgetAlreadyExists):
		rest.WriteError(w, http.StatusConflict, "Budget already exists", "Edit the existing budget for this category and month")
	case errors.Is(err, user.ErrUserNotFound):
		rest.WriteError(w, http.StatusUnauthorized, "Not authenticated", "")
	default:
		log.Errorf("budget request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal server error", "")
	}
}

func BudgetToDTO(b Budget) BudgetDTO {
	return BudgetDTO{
		Id:           b.Id,
		Category:     b.CategoryId,
		CategoryName: b.CategoryName,
		Amount:       b.Amount,
		Month:        b.Month.FirstDay().Format(period.DateLayout),
		CreatedAt:    b.Created,
		UpdatedAt:    b.Updated,
	}
}

func DTOToBudget(dto BudgetDTO) (Budget, error) {
	month, err := period.ParseMonth(dto.Month)
	if err != nil {
		return Budget{}, fmt.Errorf("%w: %v", ErrBudgetInvalid, err)
	}
	return Budget{
		Id:           dto.Id,
		CategoryId:   dto.Category,
		CategoryName: dto.CategoryName,
		Amount:       dto.Amount,
		Month:        month,
		Created:      dto.CreatedAt,
		Updated:      dto.UpdatedAt,
	}, nil
}
