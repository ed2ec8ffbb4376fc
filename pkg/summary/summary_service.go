package summary

import (
	"context"
	"fmt"
	"sync"

	"github.com/pennywise/pennywise/internal/event_bus"
	"github.com/pennywise/pennywise/internal/utils"
	"github.com/pennywise/pennywise/pkg/budget"
	"github.com/pennywise/pennywise/pkg/period"
	"github.com/pennywise/pennywise/pkg/transaction"
	"github.com/pennywise/pennywise/pkg/user"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Service interface {
	// GetSummary returns the current user's summary of month, or of the current month when month is zero.
	GetSummary(ctx context.Context, month period.Month) (FinancialSummary, error)
}

type TransactionReader interface {
	GetAll(ctx context.Context, filter transaction.Filter) ([]transaction.Transaction, error)
}

type BudgetReader interface {
	GetAll(ctx context.Context, filter budget.Filter) ([]budget.Budget, error)
}

type cacheKey struct {
	userId int
	month  period.Month
}

type ServiceImpl struct {
	transactions TransactionReader
	budgets      BudgetReader
	clock        utils.Clock

	mu    sync.Mutex
	cache map[cacheKey]FinancialSummary
	// generations counts invalidations per user; a load started before one is not cached.
	generations map[int]uint64
}

func NewService(transactions TransactionReader, budgets BudgetReader, eventBus *event_bus.EventBus) *ServiceImpl {
	s := &ServiceImpl{
		transactions: transactions,
		budgets:      budgets,
		clock:        &utils.SystemClock{},
		cache:        make(map[cacheKey]FinancialSummary),
		generations:  make(map[int]uint64),
	}
	if eventBus != nil {
		event_bus.SubscribeTyped(eventBus, event_bus.TransactionChangedEvent, func(e event_bus.EventT[event_bus.TransactionChanged]) error {
			s.invalidate(e.Data.UserId)
			return nil
		})
		event_bus.SubscribeTyped(eventBus, event_bus.BudgetChangedEvent, func(e event_bus.EventT[event_bus.BudgetChanged]) error {
			s.invalidate(e.Data.UserId)
			return nil
		})
		event_bus.SubscribeTyped(eventBus, event_bus.CategoryChangedEvent, func(e event_bus.EventT[event_bus.CategoryChanged]) error {
			s.invalidate(e.Data.UserId)
			return nil
		})
	}
	return s
}

func (s *ServiceImpl) GetSummary(ctx context.Context, month period.Month) (FinancialSummary, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return FinancialSummary{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if month.IsZero() {
		month = period.MonthOf(s.clock.Now())
	}

	key := cacheKey{userId: userId, month: month}
	cached, generation, ok := s.cached(key)
	if ok {
		log.Tracef("Summary of %s for user %d served from cache", month, userId)
		return cached, nil
	}

	var transactions []transaction.Transaction
	var budgets []budget.Budget
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = s.transactions.GetAll(gctx, transaction.Filter{Month: month})
		if err != nil {
			return fmt.Errorf("failed to load transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		budgets, err = s.budgets.GetAll(gctx, budget.Filter{Month: month})
		if err != nil {
			return fmt.Errorf("failed to load budgets: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return FinancialSummary{}, err
	}

	summary := Compute(month, transactions, budgets)
	s.store(key, generation, summary)
	return summary, nil
}

func (s *ServiceImpl) cached(key cacheKey) (FinancialSummary, uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	summary, ok := s.cache[key]
	return summary, s.generations[key.userId], ok
}

// store caches summary unless the user's data changed since generation was read.
func (s *ServiceImpl) store(key cacheKey, generation uint64, summary FinancialSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generations[key.userId] != generation {
		log.Debugf("Summary of %s for user %d changed while loading, not cached", key.month, key.userId)
		return
	}
	s.cache[key] = summary
}

func (s *ServiceImpl) invalidate(userId int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[userId]++
	for key := range s.cache {
		if key.userId == userId {
			delete(s.cache, key)
		}
	}
	log.Debugf("Summary cache invalidated for user %d", userId)
}
