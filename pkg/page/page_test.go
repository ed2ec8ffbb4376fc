package page

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pennywise/pennywise/pkg/category"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCategoryAPI struct {
	mu         sync.Mutex
	categories []category.Category
	nextId     int
	deletes    int
	listErr    error
	createErr  error
	// block, when set, holds CreateCategory until closed
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeCategoryAPI) ListCategories(context.Context) ([]category.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]category.Category(nil), f.categories...), nil
}

func (f *fakeCategoryAPI) CreateCategory(_ context.Context, c category.Category) (category.Category, error) {
	if f.block != nil {
		f.entered <- struct{}{}
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return category.Category{}, f.createErr
	}
	f.nextId++
	c.Id = f.nextId
	f.categories = append(f.categories, c)
	return c, nil
}

func (f *fakeCategoryAPI) UpdateCategory(_ context.Context, c category.Category) (category.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.categories {
		if f.categories[i].Id == c.Id {
			f.categories[i] = c
			return c, nil
		}
	}
	return category.Category{}, errors.New("not found")
}

func (f *fakeCategoryAPI) DeleteCategory(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	for i := range f.categories {
		if f.categories[i].Id == id {
			f.categories = append(f.categories[:i], f.categories[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func withCategories(n int) *fakeCategoryAPI {
	api := &fakeCategoryAPI{}
	for i := 1; i <= n; i++ {
		api.categories = append(api.categories, category.Category{Id: i, Name: fmt.Sprintf("Category %d", i), Type: category.Expense})
	}
	api.nextId = n
	return api
}

var confirm = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
var decline = ConfirmFunc(func(context.Context, string) (bool, error) { return false, nil })

func TestPage_List(t *testing.T) {
	api := withCategories(3)
	p := NewCategoriesPage(api)

	require.NoError(t, p.List(context.Background()))
	assert.Len(t, p.Records(), 3)

	api.listErr = errors.New("connection refused")
	err := p.List(context.Background())
	require.Error(t, err)
	assert.Equal(t, err, p.Err())
	assert.Len(t, p.Records(), 3)

	api.listErr = nil
	require.NoError(t, p.List(context.Background()))
	assert.NoError(t, p.Err())
}

func TestPage_OpenEditor(t *testing.T) {
	p := NewCategoriesPage(withCategories(0))
	existing := category.Category{Id: 7, Name: "Rent", Type: category.Expense, Description: "flat"}

	editor := p.OpenEditor(&existing)

	assert.True(t, editor.Editing)
	assert.Equal(t, CategoryForm{Id: 7, Name: "Rent", Type: category.Expense, Description: "flat"}, editor.Form)
	record, err := editor.Form.Record()
	require.NoError(t, err)
	assert.Equal(t, existing, record)

	editor = p.OpenEditor(nil)
	assert.False(t, editor.Editing)
	assert.Equal(t, CategoryForm{Type: category.Expense}, editor.Form)
}

func TestPage_Submit(t *testing.T) {
	t.Run("should create, close the editor and refetch", func(t *testing.T) {
		api := withCategories(1)
		p := NewCategoriesPage(api)
		p.OpenEditor(nil)

		err := p.Submit(context.Background(), CategoryForm{Name: "Books", Type: category.Expense})

		require.NoError(t, err)
		_, open := p.Editor()
		assert.False(t, open)
		assert.Len(t, p.Records(), 2)
	})

	t.Run("should update the edited record", func(t *testing.T) {
		api := withCategories(2)
		p := NewCategoriesPage(api)
		require.NoError(t, p.List(context.Background()))
		record := p.Records()[1]
		editor := p.OpenEditor(&record)

		editor.Form.Name = "Renamed"
		require.NoError(t, p.Submit(context.Background(), editor.Form))

		assert.Equal(t, "Renamed", p.Records()[1].Name)
		assert.Len(t, p.Records(), 2)
	})

	t.Run("should keep the editor open with an error on invalid input", func(t *testing.T) {
		api := withCategories(0)
		p := NewCategoriesPage(api)
		p.OpenEditor(nil)

		err := p.Submit(context.Background(), CategoryForm{Name: " ", Type: category.Expense})

		assert.ErrorIs(t, err, ErrInvalidForm)
		editor, open := p.Editor()
		assert.True(t, open)
		assert.Equal(t, " ", editor.Form.Name)
		assert.ErrorIs(t, p.Err(), ErrInvalidForm)
		assert.Empty(t, api.categories)

		p.DismissError()
		assert.NoError(t, p.Err())
	})

	t.Run("should keep the editor open when the API fails", func(t *testing.T) {
		api := withCategories(0)
		api.createErr = errors.New("conflict")
		p := NewCategoriesPage(api)
		p.OpenEditor(nil)

		err := p.Submit(context.Background(), CategoryForm{Name: "Books", Type: category.Expense})

		require.Error(t, err)
		_, open := p.Editor()
		assert.True(t, open)
		assert.Error(t, p.Err())
	})

	t.Run("should require an open editor", func(t *testing.T) {
		p := NewCategoriesPage(withCategories(0))

		assert.ErrorIs(t, p.Submit(context.Background(), CategoryForm{Name: "x", Type: category.Income}), ErrEditorClosed)
	})

	t.Run("should reject a second submit while one is in flight", func(t *testing.T) {
		api := withCategories(0)
		api.block = make(chan struct{})
		api.entered = make(chan struct{}, 1)
		p := NewCategoriesPage(api)
		p.OpenEditor(nil)
		form := CategoryForm{Name: "Books", Type: category.Expense}

		first := make(chan error, 1)
		go func() { first <- p.Submit(context.Background(), form) }()
		select {
		case <-api.entered:
		case <-time.After(5 * time.Second):
			t.Fatal("first submit did not reach the API")
		}

		err := p.Submit(context.Background(), form)
		close(api.block)

		assert.ErrorIs(t, err, ErrSubmitInProgress)
		require.NoError(t, <-first)
		assert.Len(t, api.categories, 1)
	})
}

func TestPage_Delete(t *testing.T) {
	t.Run("should never call the API without confirmation", func(t *testing.T) {
		api := withCategories(2)
		p := NewCategoriesPage(api)

		err := p.Delete(context.Background(), 1, decline)

		assert.ErrorIs(t, err, ErrDeleteNotConfirmed)
		assert.Equal(t, 0, api.deletes)
	})

	t.Run("should not call the API when the prompt fails", func(t *testing.T) {
		api := withCategories(2)
		p := NewCategoriesPage(api)

		err := p.Delete(context.Background(), 1, ConfirmFunc(func(context.Context, string) (bool, error) {
			return false, errors.New("stdin closed")
		}))

		require.Error(t, err)
		assert.Equal(t, 0, api.deletes)
		assert.Error(t, p.Err())
	})

	t.Run("should delete and refetch once confirmed", func(t *testing.T) {
		api := withCategories(2)
		p := NewCategoriesPage(api)
		var prompt string

		err := p.Delete(context.Background(), 1, ConfirmFunc(func(_ context.Context, message string) (bool, error) {
			prompt = message
			return true, nil
		}))

		require.NoError(t, err)
		assert.Equal(t, 1, api.deletes)
		assert.Contains(t, prompt, "category")
		require.Len(t, p.Records(), 1)
		assert.Equal(t, 2, p.Records()[0].Id)
	})

	t.Run("should surface API failures", func(t *testing.T) {
		p := NewCategoriesPage(withCategories(0))

		err := p.Delete(context.Background(), 42, confirm)

		require.Error(t, err)
		assert.Equal(t, err, p.Err())
	})
}

func TestPage_Pagination(t *testing.T) {
	tests := []struct {
		records  int
		size     int
		page     int
		expected int
	}{
		{records: 23, size: 10, page: 0, expected: 10},
		{records: 23, size: 10, page: 2, expected: 3},
		{records: 23, size: 10, page: 3, expected: 0},
		{records: 23, size: 5, page: 4, expected: 3},
		{records: 25, size: 25, page: 0, expected: 25},
		{records: 0, size: 10, page: 0, expected: 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d records, %d per page, page %d", tt.records, tt.size, tt.page), func(t *testing.T) {
			p := NewCategoriesPage(withCategories(tt.records))
			require.NoError(t, p.List(context.Background()))

			p.SetPageSize(tt.size)
			p.SetPage(tt.page)
			visible := p.Visible()

			assert.Len(t, visible, tt.expected)
			if tt.expected > 0 {
				assert.Equal(t, tt.page*tt.size+1, visible[0].Id)
			}
		})
	}

	t.Run("should go back to the first page when the page size changes", func(t *testing.T) {
		p := NewCategoriesPage(withCategories(30))
		require.NoError(t, p.List(context.Background()))
		p.SetPage(2)

		p.SetPageSize(5)

		assert.Equal(t, 0, p.CurrentPage())
		assert.Equal(t, 6, p.PageCount())
		assert.Equal(t, 1, p.Visible()[0].Id)
	})

	t.Run("should default to ten records per page", func(t *testing.T) {
		p := NewCategoriesPage(withCategories(11))
		require.NoError(t, p.List(context.Background()))

		assert.Equal(t, DefaultPageSize, p.PageSize())
		assert.Equal(t, 2, p.PageCount())
		p.SetPageSize(0)
		assert.Equal(t, DefaultPageSize, p.PageSize())
	})
}
