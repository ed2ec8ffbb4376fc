package budget

import (
	"cmp"
	"context"
	"slices"
	"time"
)

type stubKey struct {
	userId int
	id     int
}

type StubBudgetRepo struct {
	nextId     int
	data       map[stubKey]Budget
	categories map[int]string
}

func NewStubBudgetRepo() *StubBudgetRepo {
	return &StubBudgetRepo{data: map[stubKey]Budget{}, categories: map[int]string{}}
}

func (s *StubBudgetRepo) AddCategory(id int, name string) {
	s.categories[id] = name
}

func (s *StubBudgetRepo) Store(_ context.Context, userId int, budget Budget) (Budget, error) {
	if _, ok := s.categories[budget.CategoryId]; !ok {
		return Budget{}, ErrUnknownCategory
	}
	if s.duplicate(userId, budget) {
		return Budget{}, ErrBudgetAlreadyExists
	}
	s.nextId++
	budget.Id = s.nextId
	budget.Created = time.Now()
	budget.Updated = budget.Created
	s.data[stubKey{userId, budget.Id}] = budget
	return s.withCategoryName(budget), nil
}

func (s *StubBudgetRepo) GetAll(_ context.Context, userId int, filter Filter) ([]Budget, error) {
	budgets := make([]Budget, 0)
	for key, b := range s.data {
		if key.userId != userId {
			continue
		}
		if named := s.withCategoryName(b); filter.Matches(named) {
			budgets = append(budgets, named)
		}
	}
	ordering := filter.Ordering
	if ordering.Field == "" {
		ordering = DefaultOrdering
	}
	slices.SortFunc(budgets, func(a, b Budget) int {
		var c int
		switch ordering.Field {
		case OrderByAmount:
			c = a.Amount.Cmp(b.Amount)
		case OrderByCreated:
			c = a.Created.Compare(b.Created)
		default:
			c = a.Month.FirstDay().Compare(b.Month.FirstDay())
		}
		if ordering.Descending {
			c = -c
		}
		return cmp.Or(c, cmp.Compare(a.CategoryName, b.CategoryName), cmp.Compare(a.Id, b.Id))
	})
	return budgets, nil
}

func (s *StubBudgetRepo) Get(_ context.Context, userId int, id int) (Budget, error) {
	b, ok := s.data[stubKey{userId, id}]
	if !ok {
		return Budget{}, ErrBudgetNotFound
	}
	return s.withCategoryName(b), nil
}

func (s *StubBudgetRepo) Update(_ context.Context, userId int, budget Budget) (bool, error) {
	if _, ok := s.categories[budget.CategoryId]; !ok {
		return false, ErrUnknownCategory
	}
	key := stubKey{userId, budget.Id}
	existing, ok := s.data[key]
	if !ok {
		return false, nil
	}
	if s.duplicate(userId, budget) {
		return false, ErrBudgetAlreadyExists
	}
	budget.Created = existing.Created
	budget.Updated = time.Now()
	s.data[key] = budget
	return true, nil
}

func (s *StubBudgetRepo) Delete(_ context.Context, userId int, budgetId int) (bool, error) {
	key := stubKey{userId, budgetId}
	if _, ok := s.data[key]; !ok {
		return false, nil
	}
	delete(s.data, key)
	return true, nil
}

func (s *StubBudgetRepo) Cleanup() {
	s.nextId = 0
	s.data = map[stubKey]Budget{}
	s.categories = map[int]string{}
}

func (s *StubBudgetRepo) duplicate(userId int, budget Budget) bool {
	for key, b := range s.data {
		if key.userId == userId && key.id != budget.Id && b.CategoryId == budget.CategoryId && b.Month == budget.Month {
			return true
		}
	}
	return false
}

func (s *StubBudgetRepo) withCategoryName(b Budget) Budget {
	b.CategoryName = s.categories[b.CategoryId]
	return b
}
