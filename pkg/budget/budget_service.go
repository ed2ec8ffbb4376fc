package budget

import (
	"context"
	"fmt"
	"strings"

	"github.com/pennywise/pennywise/internal/event_bus"
	"github.com/pennywise/pennywise/pkg/user"
	log "github.com/sirupsen/logrus"
)

type BudgetService interface {
	GetAll(ctx context.Context, filter Filter) ([]Budget, error)
	Get(ctx context.Context, id int) (Budget, error)
	Create(ctx context.Context, budget Budget) (Budget, error)
	Update(ctx context.Context, budget Budget) (Budget, error)
	Delete(ctx context.Context, id int) error
}

type BudgetServiceImpl struct {
	repo     BudgetRepo
	eventBus *event_bus.EventBus
}

func NewBudgetServiceImpl(repo BudgetRepo, eventBus *event_bus.EventBus) *BudgetServiceImpl {
	return &BudgetServiceImpl{repo: repo, eventBus: eventBus}
}

func (s *BudgetServiceImpl) GetAll(ctx context.Context, filter Filter) ([]Budget, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.GetAll(ctx, userId, filter)
}

func (s *BudgetServiceImpl) Get(ctx context.Context, id int) (Budget, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Budget{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, userId, id)
}

// Create stores a budget. Only one budget per category and month is allowed.
func (s *BudgetServiceImpl) Create(ctx context.Context, budget Budget) (Budget, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Budget{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := budget.Validate(); err != nil {
		return Budget{}, err
	}

	created, err := s.repo.Store(ctx, userId, budget)
	if err != nil {
		return Budget{}, err
	}
	s.publish(ctx, userId, created.Id, event_bus.Created)
	return created, nil
}

func (s *BudgetServiceImpl) Update(ctx context.Context, budget Budget) (Budget, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Budget{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := budget.Validate(); err != nil {
		return Budget{}, err
	}

	updated, err := s.repo.Update(ctx, userId, budget)
	if err != nil {
		return Budget{}, err
	}
	if !updated {
		log.Warnf("budget not updated, probably because it does not exist (%d) or the user (%d) is not the owner", budget.Id, userId)
		return Budget{}, ErrBudgetNotFound
	}
	s.publish(ctx, userId, budget.Id, event_bus.Updated)
	return s.repo.Get(ctx, userId, budget.Id)
}

func (s *BudgetServiceImpl) Delete(ctx context.Context, id int) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}

	deleted, err := s.repo.Delete(ctx, userId, id)
	if err != nil {
		return err
	}
	if !deleted {
		log.Warnf("budget not deleted, probably because it does not exist (%d) or the user (%d) is not the owner", id, userId)
		return ErrBudgetNotFound
	}
	s.publish(ctx, userId, id, event_bus.Deleted)
	return nil
}

func (s *BudgetServiceImpl) publish(ctx context.Context, userId, budgetId int, change event_bus.ChangeType) {
	err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.BudgetChangedEvent, event_bus.BudgetChanged{
		UserId:   userId,
		BudgetId: budgetId,
		Change:   change,
	}))
	if err != nil {
		log.Errorf("failed to publish budget change: %v", err)
	}
}
