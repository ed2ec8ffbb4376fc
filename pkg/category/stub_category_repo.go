package category

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

type StubCategoryRepo struct {
	nextId int
	data   map[stubKey]Category
	inUse  map[int]bool
}

func NewStubCategoryRepo() *StubCategoryRepo {
	return &StubCategoryRepo{data: map[stubKey]Category{}, inUse: map[int]bool{}}
}

func (s *StubCategoryRepo) Store(_ context.Context, userId int, category Category) (Category, error) {
	if s.nameTaken(userId, category.Name, 0) {
		return Category{}, ErrCategoryNameTaken
	}
	s.nextId++
	category.Id = s.nextId
	category.Created = time.Now()
	category.Updated = category.Created
	s.data[stubKey{userId, category.Id}] = category
	return category, nil
}

func (s *StubCategoryRepo) GetAll(_ context.Context, userId int) ([]Category, error) {
	categories := make([]Category, 0)
	for key, c := range s.data {
		if key.userId == userId {
			categories = append(categories, c)
		}
	}
	slices.SortFunc(categories, func(a, b Category) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.Id, b.Id))
	})
	return categories, nil
}

func (s *StubCategoryRepo) Get(_ context.Context, userId int, id int) (Category, error) {
	c, ok := s.data[stubKey{userId, id}]
	if !ok {
		return Category{}, ErrCategoryNotFound
	}
	return c, nil
}

func (s *StubCategoryRepo) Update(_ context.Context, userId int, category Category) (bool, error) {
	key := stubKey{userId, category.Id}
	existing, ok := s.data[key]
	if !ok {
		return false, nil
	}
	if s.nameTaken(userId, category.Name, category.Id) {
		return false, ErrCategoryNameTaken
	}
	category.Created = existing.Created
	category.Updated = time.Now()
	s.data[key] = category
	return true, nil
}

func (s *StubCategoryRepo) Delete(_ context.Context, userId int, id int) (bool, error) {
	key := stubKey{userId, id}
	if _, ok := s.data[key]; !ok {
		return false, nil
	}
	if s.inUse[id] {
		return false, ErrCategoryInUse
	}
	delete(s.data, key)
	return true, nil
}

// MarkInUse makes Delete fail as if transactions referenced the category.
func (s *StubCategoryRepo) MarkInUse(id int) {
	s.inUse[id] = true
}

func (s *StubCategoryRepo) Cleanup() {
	s.nextId = 0
	s.data = map[stubKey]Category{}
	s.inUse = map[int]bool{}
}

func (s *StubCategoryRepo) nameTaken(userId int, name string, exceptId int) bool {
	for key, c := range s.data {
		if key.userId == userId && key.id != exceptId && c.Name == name {
			return true
		}
	}
	return false
}
