package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pennywise/pennywise/internal/auth"
	"github.com/pennywise/pennywise/internal/config"
	"github.com/pennywise/pennywise/internal/event_bus"
	"github.com/pennywise/pennywise/internal/utils"
	"github.com/pennywise/pennywise/pkg/budget"
	"github.com/pennywise/pennywise/pkg/category"
	"github.com/pennywise/pennywise/pkg/summary"
	"github.com/pennywise/pennywise/pkg/transaction"
	"github.com/pennywise/pennywise/pkg/user"
)

// Repositories is the storage the services are built on.
type Repositories struct {
	Users        user.Repo
	Categories   category.Repo
	Transactions transaction.Repo
	Budgets      budget.BudgetRepo
}

func PostgresRepositories(db *pgxpool.Pool) Repositories {
	return Repositories{
		Users:        user.NewUserRepo(db),
		Categories:   category.NewRepo(db),
		Transactions: transaction.NewRepo(db),
		Budgets:      budget.NewBudgetRepo(db),
	}
}

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus     *event_bus.EventBus
	TokenService *auth.TokenService

	UserService user.Service
	UserHandler *user.Handler

	CategoryService *category.ServiceImpl
	CategoryHandler *category.Handler

	TransactionService *transaction.ServiceImpl
	TransactionHandler *transaction.Handler

	BudgetService *budget.BudgetServiceImpl
	BudgetHandler *budget.BudgetHandler

	SummaryService     *summary.ServiceImpl
	CsvSummaryRenderer *summary.CsvSummaryRendererImpl
	SummaryHandler     *summary.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(repos Repositories, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.EventBus = event_bus.NewEventBus()

	tokenService, err := auth.NewTokenService(cfg.Auth, deps.Clock)
	if err != nil {
		return nil, err
	}
	deps.TokenService = tokenService

	deps.UserService = user.NewUserService(repos.Users)
	deps.UserHandler = user.NewHandler(deps.UserService, deps.TokenService)

	deps.CategoryService = category.NewService(repos.Categories, deps.EventBus)
	deps.CategoryHandler = category.NewHandler(deps.CategoryService)

	deps.TransactionService = transaction.NewService(repos.Transactions, deps.EventBus)
	deps.TransactionHandler = transaction.NewHandler(deps.TransactionService)

	deps.BudgetService = budget.NewBudgetServiceImpl(repos.Budgets, deps.EventBus)
	deps.BudgetHandler = budget.NewBudgetHandler(deps.BudgetService)

	deps.SummaryService = summary.NewService(deps.TransactionService, deps.BudgetService, deps.EventBus)
	deps.CsvSummaryRenderer = summary.NewCsvSummaryRenderer()
	deps.SummaryHandler = summary.NewHandler(deps.SummaryService, deps.CsvSummaryRenderer)

	return deps, nil
}
