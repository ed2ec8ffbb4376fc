package transaction

import (
	"context"
	"fmt"
	"strings"

	"github.com/pennywise/pennywise/internal/event_bus"
	"github.com/pennywise/pennywise/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	GetAll(ctx context.Context, filter Filter) ([]Transaction, error)
	Get(ctx context.Context, id int) (Transaction, error)
	Create(ctx context.Context, transaction Transaction) (Transaction, error)
	Update(ctx context.Context, transaction Transaction) (Transaction, error)
	Delete(ctx context.Context, id int) error
}

type ServiceImpl struct {
	repo     Repo
	eventBus *event_bus.EventBus
}

func NewService(repo Repo, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus}
}

func (s *ServiceImpl) GetAll(ctx context.Context, filter Filter) ([]Transaction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.GetAll(ctx, userId, filter)
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (Transaction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, userId, id)
}

func (s *ServiceImpl) Create(ctx context.Context, transaction Transaction) (Transaction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := transaction.Validate(); err != nil {
		return Transaction{}, err
	}

	created, err := s.repo.Store(ctx, userId, transaction)
	if err != nil {
		return Transaction{}, err
	}
	s.publish(ctx, userId, created.Id, event_bus.Created)
	return created, nil
}

func (s *ServiceImpl) Update(ctx context.Context, transaction Transaction) (Transaction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := transaction.Validate(); err != nil {
		return Transaction{}, err
	}

	updated, err := s.repo.Update(ctx, userId, transaction)
	if err != nil {
		return Transaction{}, err
	}
	if !updated {
		log.Warnf("transaction not updated, probably because it does not exist (%d) or the user (%d) is not the owner", transaction.Id, userId)
		return Transaction{}, ErrTransactionNotFound
	}
	s.publish(ctx, userId, transaction.Id, event_bus.Updated)
	return s.repo.Get(ctx, userId, transaction.Id)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}

	deleted, err := s.repo.Delete(ctx, userId, id)
	if err != nil {
		return err
	}
	if !deleted {
		log.Warnf("transaction not deleted, probably because it does not exist (%d) or the user (%d) is not the owner", id, userId)
		return ErrTransactionNotFound
	}
	s.publish(ctx, userId, id, event_bus.Deleted)
	return nil
}

func (s *ServiceImpl) publish(ctx context.Context, userId, transactionId int, change event_bus.ChangeType) {
	err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.TransactionChangedEvent, event_bus.TransactionChanged{
		UserId:        userId,
		TransactionId: transactionId,
		Change:        change,
	}))
	if err != nil {
		log.Errorf("failed to publish transaction change: %v", err)
	}
}
