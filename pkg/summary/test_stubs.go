package summary

import (
	"context"
	"sync/atomic"

	"github.com/pennywise/pennywise/pkg/budget"
	"github.com/pennywise/pennywise/pkg/transaction"
)

type transactionReaderStub struct {
	transactions []transaction.Transaction
	err          error
	calls        atomic.Int32
	// afterRead runs once the transactions have been read, like a write committing mid-request.
	afterRead func()
}

func (s *transactionReaderStub) GetAll(ctx context.Context, filter transaction.Filter) ([]transaction.Transaction, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	result := make([]transaction.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		if filter.Matches(t) {
			result = append(result, t)
		}
	}
	if s.afterRead != nil {
		s.afterRead()
	}
	return result, nil
}

type budgetReaderStub struct {
	budgets []budget.Budget
	err     error
	calls   atomic.Int32
}

func (s *budgetReaderStub) GetAll(ctx context.Context, filter budget.Filter) ([]budget.Budget, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	result := make([]budget.Budget, 0, len(s.budgets))
	for _, b := range s.budgets {
		if filter.Matches(b) {
			result = append(result, b)
		}
	}
	return result, nil
}
