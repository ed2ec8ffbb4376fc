package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {
	api := r.PathPrefix("/api").Subrouter()

	// Auth
	api.HandleFunc("/auth/register/", deps.UserHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login/", deps.UserHandler.Login).Methods("POST")
	api.HandleFunc("/auth/refresh/", deps.UserHandler.Refresh).Methods("POST")

	protected := api.NewRoute().Subrouter()
	protected.Use(authenticate(deps))

	// Profile
	protected.HandleFunc("/auth/profile/", deps.UserHandler.Profile).Methods("GET")
	protected.HandleFunc("/auth/profile/", deps.UserHandler.UpdateProfile).Methods("PUT")

	// Categories
	protected.HandleFunc("/categories/", deps.CategoryHandler.List).Methods("GET")
	protected.HandleFunc("/categories/", deps.CategoryHandler.Create).Methods("POST")
	protected.HandleFunc("/categories/{id:[0-9]+}/", deps.CategoryHandler.Get).Methods("GET")
	protected.HandleFunc("/categories/{id:[0-9]+}/", deps.CategoryHandler.Update).Methods("PUT")
	protected.HandleFunc("/categories/{id:[0-9]+}/", deps.CategoryHandler.Delete).Methods("DELETE")

	// Transactions
	protected.HandleFunc("/transactions/", deps.TransactionHandler.List).Methods("GET")
	protected.HandleFunc("/transactions/", deps.TransactionHandler.Create).Methods("POST")
	protected.HandleFunc("/transactions/{id:[0-9]+}/", deps.TransactionHandler.Get).Methods("GET")
	protected.HandleFunc("/transactions/{id:[0-9]+}/", deps.TransactionHandler.Update).Methods("PUT")
	protected.HandleFunc("/transactions/{id:[0-9]+}/", deps.TransactionHandler.Delete).Methods("DELETE")

	// Budgets
	protected.HandleFunc("/budgets/", deps.BudgetHandler.List).Methods("GET")
	protected.HandleFunc("/budgets/", deps.BudgetHandler.Create).Methods("POST")
	protected.HandleFunc("/budgets/{id:[0-9]+}/", deps.BudgetHandler.Get).Methods("GET")
	protected.HandleFunc("/budgets/{id:[0-9]+}/", deps.BudgetHandler.Update).Methods("PUT")
	protected.HandleFunc("/budgets/{id:[0-9]+}/", deps.BudgetHandler.Delete).Methods("DELETE")

	// Summary
	protected.HandleFunc("/summary/", deps.SummaryHandler.GetSummary).Methods("GET")
	protected.HandleFunc("/summary/charts/{name}.svg", deps.SummaryHandler.GetChart).Methods("GET")
}

// NewRouter builds the HTTP handler of the API.
func NewRouter(deps *Dependencies) *mux.Router {
	r := mux.NewRouter()
	SetupMiddleware(r)
	RegisterRoutes(r, deps)
	return r
}
