package category

import (
	"context"
	"fmt"
	"strings"

	"github.com/pennywise/pennywise/internal/event_bus"
	"github.com/pennywise/pennywise/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	GetAll(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id int) (Category, error)
	Create(ctx context.Context, category Category) (Category, error)
	Update(ctx context.Context, category Category) (Category, error)
	Delete(ctx context.Context, id int) error
}

type ServiceImpl struct {
	repo     Repo
	eventBus *event_bus.EventBus
}

func NewService(repo Repo, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus}
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Category, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId)
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (Category, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Category{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, userId, id)
}

func (s *ServiceImpl) Create(ctx context.Context, category Category) (Category, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Category{}, fmt.Errorf("failed to get current user: %w", err)
	}
	category.Name = strings.TrimSpace(category.Name)
	if err := category.Validate(); err != nil {
		return Category{}, err
	}

	created, err := s.repo.Store(ctx, userId, category)
	if err != nil {
		return Category{}, err
	}
	s.publish(ctx, userId, created.Id, created.Name, event_bus.Created)
	return created, nil
}

func (s *ServiceImpl) Update(ctx context.Context, category Category) (Category, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Category{}, fmt.Errorf("failed to get current user: %w", err)
	}
	category.Name = strings.TrimSpace(category.Name)
	if err := category.Validate(); err != nil {
		return Category{}, err
	}

	updated, err := s.repo.Update(ctx, userId, category)
	if err != nil {
		return Category{}, err
	}
	if !updated {
		log.Warnf("category not updated, probably because it does not exist (%d) or the user (%d) is not the owner", category.Id, userId)
		return Category{}, ErrCategoryNotFound
	}
	s.publish(ctx, userId, category.Id, category.Name, event_bus.Updated)
	return s.repo.Get(ctx, userId, category.Id)
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
		log.Warnf("category not deleted, probably because it does not exist (%d) or the user (%d) is not the owner", id, userId)
		return ErrCategoryNotFound
	}
	s.publish(ctx, userId, id, "", event_bus.Deleted)
	return nil
}

func (s *ServiceImpl) publish(ctx context.Context, userId, categoryId int, name string, change event_bus.ChangeType) {
	err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.CategoryChangedEvent, event_bus.CategoryChanged{
		UserId:     userId,
		CategoryId: categoryId,
		Name:       name,
		Change:     change,
	}))
	if err != nil {
		log.Errorf("failed to publish category change: %v", err)
	}
}
