package transaction

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/pennywise/pennywise/pkg/category"
	"github.com/pennywise/pennywise/pkg/period"
	"github.com/pennywise/pennywise/pkg/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(user.WithUser(r.Context(), user.User{Id: 1, Uid: "uid-1"})))
	})
}

func setupHandlerTest(t *testing.T) *mux.Router {
	teardown := setup(t)
	t.Cleanup(teardown)
	handler := NewHandler(service)
	router := mux.NewRouter()
	router.Use(withUser)
	router.HandleFunc("/api/transactions/", handler.List).Methods("GET")
	router.HandleFunc("/api/transactions/", handler.Create).Methods("POST")
	router.HandleFunc("/api/transactions/{id:[0-9]+}/", handler.Get).Methods("GET")
	router.HandleFunc("/api/transactions/{id:[0-9]+}/", handler.Update).Methods("PUT")
	router.HandleFunc("/api/transactions/{id:[0-9]+}/", handler.Delete).Methods("DELETE")
	return router
}

func doRequest(t *testing.T, router *mux.Router, method, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHandler_Create(t *testing.T) {
	router := setupHandlerTest(t)

	// amounts are accepted both as JSON numbers and strings
	rr := doRequest(t, router, "POST", "/api/transactions/",
		`{"category": 2, "amount": 2500, "type": "expense", "description": "market", "date": "2024-03-10"}`)

	require.Equal(t, http.StatusCreated, rr.Code)
	var created TransactionDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))
	assert.Equal(t, "Groceries", created.CategoryName)
	assert.Equal(t, "2024-03-10", created.Date)
	assert.True(t, decimal.NewFromInt(2500).Equal(created.Amount))
	assert.Contains(t, rr.Body.String(), `"amount":"2500"`)
}

func TestHandler_Create_Invalid(t *testing.T) {
	router := setupHandlerTest(t)

	rr := doRequest(t, router, "POST", "/api/transactions/",
		`{"category": 2, "amount": "-1", "type": "expense", "date": "2024-03-10"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "amount must be positive")

	rr = doRequest(t, router, "POST", "/api/transactions/",
		`{"category": 2, "amount": "1", "type": "expense", "date": "10/03/2024"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(t, router, "POST", "/api/transactions/",
		`{"category": 77, "amount": "1", "type": "expense", "date": "2024-03-10"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "category does not exist")
}

func TestHandler_ListWithFilters(t *testing.T) {
	router := setupHandlerTest(t)
	_, _ = service.Create(ctx, newTransaction(1, "50000", category.Income, "2024-03-01", "salary"))
	_, _ = service.Create(ctx, newTransaction(2, "2500", category.Expense, "2024-03-10", "market"))
	_, _ = service.Create(ctx, newTransaction(2, "100", category.Expense, "2024-04-10", "april market"))

	rr := doRequest(t, router, "GET", "/api/transactions/?month=2024-03&type=expense", "")

	require.Equal(t, http.StatusOK, rr.Code)
	var list []TransactionDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "market", list[0].Description)

	rr = doRequest(t, router, "GET", "/api/transactions/?ordering=name", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_UpdateGetDelete(t *testing.T) {
	router := setupHandlerTest(t)
	created, err := service.Create(ctx, newTransaction(2, "10", category.Expense, "2024-03-05", "snack"))
	require.NoError(t, err)
	path := "/api/transactions/" + strconv.Itoa(created.Id) + "/"

	rr := doRequest(t, router, "PUT", path, `{"category": 3, "amount": "12.50", "type": "expense", "description": "late fee", "date": "2024-03-06"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, router, "GET", path, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var fetched TransactionDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&fetched))
	assert.Equal(t, "Rent", fetched.CategoryName)
	assert.Equal(t, "late fee", fetched.Description)

	rr = doRequest(t, router, "DELETE", path, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = doRequest(t, router, "GET", path, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestFilter_QueryRoundTrip(t *testing.T) {
	filter := Filter{
		Type:       category.Expense,
		CategoryId: 4,
		Month:      period.Month{Year: 2024, Month: time.March},
		DateFrom:   date("2024-03-02"),
		Search:     "rent",
		Ordering:   Ordering{Field: OrderByAmount, Descending: true},
	}

	parsed, err := FilterFromQuery(filter.Query())

	require.NoError(t, err)
	assert.Equal(t, filter, parsed)

	_, err = FilterFromQuery(url.Values{"type": {"transfer"}})
	assert.Error(t, err)
}
