package transaction

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
	"github.com/pennywise/pennywise/pkg/category"
	"github.com/pennywise/pennywise/pkg/period"
	"github.com/pennywise/pennywise/pkg/user"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type TransactionDTO struct {
	Id           int             `json:"id"`
	Category     int             `json:"category"`
	CategoryName string          `json:"category_name"`
	Amount       decimal.Decimal `json:"amount"`
	Type         category.Type   `json:"type"`
	Description  string          `json:"description"`
	Date         string          `json:"date"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type Handler struct {
	transactionService Service
}

func NewHandler(transactionService Service) *Handler {
	return &Handler{transactionService: transactionService}
}

// List godoc
// @Summary List the current user's transactions
// @Tags Transaction
// @Produce json
// @Param type query string false "income or expense"
// @Param category query int false "Category ID"
// @Param month query string false "YYYY-MM"
// @Param date_from query string false "YYYY-MM-DD"
// @Param date_to query string false "YYYY-MM-DD"
// @Param search query string false "Matches description or category name"
// @Param ordering query string false "date, amount or created, prefixed with - for descending"
// @Success 200 {array} TransactionDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/transactions/ [get]
// @Security Bearer
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log.Trace("Listing transactions")

	filter, err := FilterFromQuery(r.URL.Query())
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid filter", err.Error())
		return
	}
	transactions, err := h.transactionService.GetAll(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	dtos := make([]TransactionDTO, 0, len(transactions))
	for _, t := range transactions {
		dtos = append(dtos, TransactionToDTO(t))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// Get godoc
// @Summary Get a transaction
// @Tags Transaction
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} TransactionDTO
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/transactions/{id}/ [get]
// @Security Bearer
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(w, r)
	if !ok {
		return
	}
	t, err := h.transactionService.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, TransactionToDTO(t))
}

// Create godoc
// @Summary Record a transaction
// @Tags Transaction
// @Accept json
// @Produce json
// @Param transaction body TransactionDTO true "Transaction"
// @Success 201 {object} TransactionDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/transactions/ [post]
// @Security Bearer
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating transaction")

	t, ok := decodeTransaction(w, r)
	if !ok {
		return
	}
	created, err := h.transactionService.Create(r.Context(), t)
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, TransactionToDTO(created))
}

// Update godoc
// @Summary Replace a transaction
// @Tags Transaction
// @Accept json
// @Produce json
// @Param id path int true "Transaction ID"
// @Param transaction body TransactionDTO true "Transaction"
// @Success 200 {object} TransactionDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/transactions/{id}/ [put]
// @Security Bearer
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(w, r)
	if !ok {
		return
	}
	log.Debugf("Updating transaction %d", id)

	t, ok := decodeTransaction(w, r)
	if !ok {
		return
	}
	t.Id = id
	updated, err := h.transactionService.Update(r.Context(), t)
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, TransactionToDTO(updated))
}

// Delete godoc
// @Summary Delete a transaction
// @Tags Transaction
// @Param id path int true "Transaction ID"
// @Success 204 "No Content"
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/transactions/{id}/ [delete]
// @Security Bearer
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(w, r)
	if !ok {
		return
	}
	log.Debugf("Deleting transaction %d", id)

	if err := h.transactionService.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// FilterFromQuery reads the list filters from query parameters.
func FilterFromQuery(q url.Values) (Filter, error) {
	filter := Filter{Search: q.Get("search")}
	var err error

	if v := q.Get("type"); v != "" {
		if filter.Type, err = category.ParseType(v); err != nil {
			return Filter{}, err
		}
	}
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
	if v := q.Get("date_from"); v != "" {
		if filter.DateFrom, err = period.ParseDate(v); err != nil {
			return Filter{}, fmt.Errorf("invalid date_from %q", v)
		}
	}
	if v := q.Get("date_to"); v != "" {
		if filter.DateTo, err = period.ParseDate(v); err != nil {
			return Filter{}, fmt.Errorf("invalid date_to %q", v)
		}
	}
	if filter.Ordering, err = ParseOrdering(q.Get("ordering")); err != nil {
		return Filter{}, err
	}
	return filter, nil
}

// Query encodes the filter as query parameters understood by FilterFromQuery.
func (f Filter) Query() url.Values {
	q := url.Values{}
	if f.Type != "" {
		q.Set("type", string(f.Type))
	}
	if f.CategoryId != 0 {
		q.Set("category", strconv.Itoa(f.CategoryId))
	}
	if !f.Month.IsZero() {
		q.Set("month", f.Month.String())
	}
	if !f.DateFrom.IsZero() {
		q.Set("date_from", f.DateFrom.Format(period.DateLayout))
	}
	if !f.DateTo.IsZero() {
		q.Set("date_to", f.DateTo.Format(period.DateLayout))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Ordering.Field != "" {
		q.Set("ordering", f.Ordering.String())
	}
	return q
}

func decodeTransaction(w http.ResponseWriter, r *http.Request) (Transaction, bool) {
	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return Transaction{}, false
	}
	t, err := DTOToTransaction(dto)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid transaction", err.Error())
		return Transaction{}, false
	}
	return t, true
}

func pathId(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid transaction id", "")
		return 0, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTransactionInvalid):
		rest.WriteError(w, http.StatusBadRequest, "Invalid transaction", err.Error())
	case errors.Is(err, ErrUnknownCategory):
		rest.WriteError(w, http.StatusBadRequest, "Invalid transaction", "category does not exist")
	case errors.Is(err, ErrTransactionNotFound):
		rest.WriteError(w, http.StatusNotFound, "Transaction not found", "")
	case errors.Is(err, user.ErrUserNotFound):
		rest.WriteError(w, http.StatusUnauthorized, "Not authenticated", "")
	default:
		log.Errorf("transaction request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal server error", "")
	}
}

func TransactionToDTO(t Transaction) TransactionDTO {
	return TransactionDTO{
		Id:           t.Id,
		Category:     t.CategoryId,
		CategoryName: t.CategoryName,
		Amount:       t.Amount,
		Type:         t.Type,
		Description:  t.Description,
		Date:         t.Date.Format(period.DateLayout),
		CreatedAt:    t.Created,
		UpdatedAt:    t.Updated,
	}
}

func DTOToTransaction(dto TransactionDTO) (Transaction, error) {
	date, err := period.ParseDate(dto.Date)
	if err != nil {
		return Transaction{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrTransactionInvalid)
	}
	return Transaction{
		Id:           dto.Id,
		CategoryId:   dto.Category,
		CategoryName: dto.CategoryName,
		Amount:       dto.Amount,
		Type:         dto.Type,
		Description:  dto.Description,
		Date:         date,
		Created:      dto.CreatedAt,
		Updated:      dto.UpdatedAt,
	}, nil
}
