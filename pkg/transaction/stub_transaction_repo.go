package transaction

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

// StubTransactionRepo keeps transactions in memory. Category names are resolved through the
// categories map so renaming a category is reflected on every read.
type StubTransactionRepo struct {
	nextId     int
	data       map[stubKey]Transaction
	categories map[int]string
}

func NewStubTransactionRepo() *StubTransactionRepo {
	return &StubTransactionRepo{data: map[stubKey]Transaction{}, categories: map[int]string{}}
}

// AddCategory registers a category the stub accepts as reference.
func (s *StubTransactionRepo) AddCategory(id int, name string) {
	s.categories[id] = name
}

func (s *StubTransactionRepo) Store(_ context.Context, userId int, transaction Transaction) (Transaction, error) {
	if _, ok := s.categories[transaction.CategoryId]; !ok {
		return Transaction{}, ErrUnknownCategory
	}
	s.nextId++
	transaction.Id = s.nextId
	transaction.Created = time.Now()
	transaction.Updated = transaction.Created
	s.data[stubKey{userId, transaction.Id}] = transaction
	return s.withCategoryName(transaction), nil
}

func (s *StubTransactionRepo) GetAll(_ context.Context, userId int, filter Filter) ([]Transaction, error) {
	transactions := make([]Transaction, 0)
	for key, t := range s.data {
		t = s.withCategoryName(t)
		if key.userId == userId && filter.Matches(t) {
			transactions = append(transactions, t)
		}
	}
	ordering := filter.Ordering
	if ordering.Field == "" {
		ordering = DefaultOrdering
	}
	slices.SortFunc(transactions, func(a, b Transaction) int {
		var c int
		switch ordering.Field {
		case OrderByAmount:
			c = a.Amount.Cmp(b.Amount)
		case OrderByCreated:
			c = a.Created.Compare(b.Created)
		default:
			c = a.Date.Compare(b.Date)
		}
		c = cmp.Or(c, cmp.Compare(a.Id, b.Id))
		if ordering.Descending {
			return -c
		}
		return c
	})
	return transactions, nil
}

func (s *StubTransactionRepo) Get(_ context.Context, userId int, id int) (Transaction, error) {
	t, ok := s.data[stubKey{userId, id}]
	if !ok {
		return Transaction{}, ErrTransactionNotFound
	}
	return s.withCategoryName(t), nil
}

func (s *StubTransactionRepo) Update(_ context.Context, userId int, transaction Transaction) (bool, error) {
	if _, ok := s.categories[transaction.CategoryId]; !ok {
		return false, ErrUnknownCategory
	}
	key := stubKey{userId, transaction.Id}
	existing, ok := s.data[key]
	if !ok {
		return false, nil
	}
	transaction.Created = existing.Created
	transaction.Updated = time.Now()
	s.data[key] = transaction
	return true, nil
}

func (s *StubTransactionRepo) Delete(_ context.Context, userId int, id int) (bool, error) {
	key := stubKey{userId, id}
	if _, ok := s.data[key]; !ok {
		return false, nil
	}
	delete(s.data, key)
	return true, nil
}

func (s *StubTransactionRepo) Cleanup() {
	s.nextId = 0
	s.data = map[stubKey]Transaction{}
	s.categories = map[int]string{}
}

func (s *StubTransactionRepo) withCategoryName(t Transaction) Transaction {
	t.CategoryName = s.categories[t.CategoryId]
	return t
}
