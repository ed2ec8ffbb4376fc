package app

import (
	"context"

	"github.com/pennywise/pennywise/pkg/budget"
	"github.com/pennywise/pennywise/pkg/category"
	"github.com/pennywise/pennywise/pkg/transaction"
	"github.com/pennywise/pennywise/pkg/user"
)

type categoryReferences interface {
	AddCategory(id int, name string)
}

// linkedCategoryRepo publishes stored category names to the in-memory repositories referencing them.
type linkedCategoryRepo struct {
	*category.StubCategoryRepo
	references []categoryReferences
}

func (r linkedCategoryRepo) Store(ctx context.Context, userId int, c category.Category) (category.Category, error) {
	stored, err := r.StubCategoryRepo.Store(ctx, userId, c)
	if err != nil {
		return stored, err
	}
	r.link(stored.Id, stored.Name)
	return stored, nil
}

func (r linkedCategoryRepo) Update(ctx context.Context, userId int, c category.Category) (bool, error) {
	updated, err := r.StubCategoryRepo.Update(ctx, userId, c)
	if err == nil && updated {
		r.link(c.Id, c.Name)
	}
	return updated, err
}

func (r linkedCategoryRepo) link(id int, name string) {
	for _, ref := range r.references {
		ref.AddCategory(id, name)
	}
}

// InMemoryRepositories backs the application with in-memory storage. Nothing is persisted and
// categories are not protected from deletion while referenced.
func InMemoryRepositories() Repositories {
	transactions := transaction.NewStubTransactionRepo()
	budgets := budget.NewStubBudgetRepo()
	return Repositories{
		Users: user.NewStubUserRepository(),
		Categories: linkedCategoryRepo{
			StubCategoryRepo: category.NewStubCategoryRepo(),
			references:       []categoryReferences{transactions, budgets},
		},
		Transactions: transactions,
		Budgets:      budgets,
	}
}
