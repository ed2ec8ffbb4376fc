package page

import (
	"context"
	"sync"

	"github.com/pennywise/pennywise/internal/utils"
	"github.com/pennywise/pennywise/pkg/budget"
	"github.com/pennywise/pennywise/pkg/category"
	"github.com/pennywise/pennywise/pkg/transaction"
)

type CategoryAPI interface {
	ListCategories(ctx context.Context) ([]category.Category, error)
	CreateCategory(ctx context.Context, c category.Category) (category.Category, error)
	UpdateCategory(ctx context.Context, c category.Category) (category.Category, error)
	DeleteCategory(ctx context.Context, id int) error
}

type TransactionAPI interface {
	ListTransactions(ctx context.Context, filter transaction.Filter) ([]transaction.Transaction, error)
	CreateTransaction(ctx context.Context, t transaction.Transaction) (transaction.Transaction, error)
	UpdateTransaction(ctx context.Context, t transaction.Transaction) (transaction.Transaction, error)
	DeleteTransaction(ctx context.Context, id int) error
}

type BudgetAPI interface {
	ListBudgets(ctx context.Context, filter budget.Filter) ([]budget.Budget, error)
	CreateBudget(ctx context.Context, b budget.Budget) (budget.Budget, error)
	UpdateBudget(ctx context.Context, b budget.Budget) (budget.Budget, error)
	DeleteBudget(ctx context.Context, id int) error
}

type categoryResource struct {
	api CategoryAPI
}

func (r categoryResource) List(ctx context.Context) ([]category.Category, error) {
	return r.api.ListCategories(ctx)
}

func (r categoryResource) Create(ctx context.Context, c category.Category) (category.Category, error) {
	return r.api.CreateCategory(ctx, c)
}

func (r categoryResource) Update(ctx context.Context, c category.Category) (category.Category, error) {
	return r.api.UpdateCategory(ctx, c)
}

func (r categoryResource) Delete(ctx context.Context, id int) error {
	return r.api.DeleteCategory(ctx, id)
}

type CategoriesPage = Page[category.Category, CategoryForm]

func NewCategoriesPage(api CategoryAPI) *CategoriesPage {
	return New[category.Category, CategoryForm]("category", categoryResource{api: api}, CategoryFormOf,
		func() CategoryForm { return CategoryForm{Type: category.Expense} })
}

// filtered keeps the list filter of a resource that supports one.
type filtered[F any] struct {
	mu     sync.Mutex
	filter F
}

func (f *filtered[F]) get() F {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter
}

func (f *filtered[F]) set(filter F) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter = filter
}

type transactionResource struct {
	api TransactionAPI
	*filtered[transaction.Filter]
}

func (r transactionResource) List(ctx context.Context) ([]transaction.Transaction, error) {
	return r.api.ListTransactions(ctx, r.get())
}

func (r transactionResource) Create(ctx context.Context, t transaction.Transaction) (transaction.Transaction, error) {
	return r.api.CreateTransaction(ctx, t)
}

func (r transactionResource) Update(ctx context.Context, t transaction.Transaction) (transaction.Transaction, error) {
	return r.api.UpdateTransaction(ctx, t)
}

func (r transactionResource) Delete(ctx context.Context, id int) error {
	return r.api.DeleteTransaction(ctx, id)
}

type TransactionsPage struct {
	*Page[transaction.Transaction, TransactionForm]
	filter *filtered[transaction.Filter]
}

func NewTransactionsPage(api TransactionAPI, clock utils.Clock) *TransactionsPage {
	filter := &filtered[transaction.Filter]{}
	resource := transactionResource{api: api, filtered: filter}
	return &TransactionsPage{
		Page: New[transaction.Transaction, TransactionForm]("transaction", resource, TransactionFormOf,
			func() TransactionForm { return NewTransactionForm(clock) }),
		filter: filter,
	}
}

// SetFilter narrows the next List and goes back to the first page.
func (p *TransactionsPage) SetFilter(filter transaction.Filter) {
	p.filter.set(filter)
	p.SetPage(0)
}

type budgetResource struct {
	api BudgetAPI
	*filtered[budget.Filter]
}

func (r budgetResource) List(ctx context.Context) ([]budget.Budget, error) {
	return r.api.ListBudgets(ctx, r.get())
}

func (r budgetResource) Create(ctx context.Context, b budget.Budget) (budget.Budget, error) {
	return r.api.CreateBudget(ctx, b)
}

func (r budgetResource) Update(ctx context.Context, b budget.Budget) (budget.Budget, error) {
	return r.api.UpdateBudget(ctx, b)
}

func (r budgetResource) Delete(ctx context.Context, id int) error {
	return r.api.DeleteBudget(ctx, id)
}

type BudgetsPage struct {
	*Page[budget.Budget, BudgetForm]
	filter *filtered[budget.Filter]
}

func NewBudgetsPage(api BudgetAPI, clock utils.Clock) *BudgetsPage {
	filter := &filtered[budget.Filter]{}
	resource := budgetResource{api: api, filtered: filter}
	return &BudgetsPage{
		Page: New[budget.Budget, BudgetForm]("budget", resource, BudgetFormOf,
			func() BudgetForm { return NewBudgetForm(clock) }),
		filter: filter,
	}
}

func (p *BudgetsPage) SetFilter(filter budget.Filter) {
	p.filter.set(filter)
	p.SetPage(0)
}
