package budget

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pennywise/pennywise/internal/test_utils"
	"github.com/pennywise/pennywise/pkg/category"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var pgContainer *postgres.PostgresContainer
var openDb func() *pgxpool.Pool

func TestMain(m *testing.M) {
	pgContainer, openDb = test_utils.TestWithDB()
	code := m.Run()
	if err := testcontainers.TerminateContainer(pgContainer); err != nil {
		log.Errorf("failed to terminate container: %s", err)
	}
	os.Exit(code)
}

func setupTestRepository(t *testing.T) (context.Context, *BudgetRepoImpl, int, int, int) {
	ctx := context.Background()
	db := openDb()
	t.Cleanup(func() {
		db.Close()
		err := pgContainer.Restore(ctx)
		require.NoError(t, err)
	})
	userId := test_utils.InsertUser(t, ctx, db, "repo@example.com")
	categories := category.NewRepo(db)
	groceries, err := categories.Store(ctx, userId, category.Category{Name: "Groceries", Type: category.Expense})
	require.NoError(t, err)
	rent, err := categories.Store(ctx, userId, category.Category{Name: "Rent", Type: category.Expense})
	require.NoError(t, err)
	return ctx, NewBudgetRepo(db), userId, groceries.Id, rent.Id
}

func TestBudgetRepoImpl_StoreAndGet(t *testing.T) {
	// given
	ctx, repo, userId, groceries, _ := setupTestRepository(t)

	// when
	stored, err := repo.Store(ctx, userId, newBudget(groceries, "400.50", march))

	// then
	require.NoError(t, err)
	assert.Equal(t, "Groceries", stored.CategoryName)
	assert.Equal(t, march, stored.Month)
	assert.True(t, decimal.RequireFromString("400.50").Equal(stored.Amount))
}

func TestBudgetRepoImpl_UniquePerCategoryAndMonth(t *testing.T) {
	ctx, repo, userId, groceries, rent := setupTestRepository(t)
	_, err := repo.Store(ctx, userId, newBudget(groceries, "400", march))
	require.NoError(t, err)

	_, err = repo.Store(ctx, userId, newBudget(groceries, "100", march))
	assert.ErrorIs(t, err, ErrBudgetAlreadyExists)

	other, err := repo.Store(ctx, userId, newBudget(rent, "1500", march))
	require.NoError(t, err)
	other.CategoryId = groceries
	_, err = repo.Update(ctx, userId, other)
	assert.ErrorIs(t, err, ErrBudgetAlreadyExists)
}

func TestBudgetRepoImpl_GetAllFilters(t *testing.T) {
	ctx, repo, userId, groceries, rent := setupTestRepository(t)
	_, _ = repo.Store(ctx, userId, newBudget(rent, "1500", march))
	_, _ = repo.Store(ctx, userId, newBudget(groceries, "400", march))
	_, _ = repo.Store(ctx, userId, newBudget(groceries, "450", april))

	all, err := repo.GetAll(ctx, userId, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, april, all[0].Month)
	assert.Equal(t, "Groceries", all[1].CategoryName)

	inMarch, err := repo.GetAll(ctx, userId, Filter{Month: march})
	require.NoError(t, err)
	assert.Len(t, inMarch, 2)

	byCategory, err := repo.GetAll(ctx, userId, Filter{CategoryId: groceries})
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	searched, err := repo.GetAll(ctx, userId, Filter{Search: "rEn", Month: march})
	require.NoError(t, err)
	require.Len(t, searched, 1)
	assert.Equal(t, "Rent", searched[0].CategoryName)
}

func TestBudgetRepoImpl_Delete(t *testing.T) {
	ctx, repo, userId, groceries, _ := setupTestRepository(t)
	stored, err := repo.Store(ctx, userId, newBudget(groceries, "400", march))
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, userId, stored.Id)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, userId, stored.Id)
	require.NoError(t, err)
	assert.False(t, deleted)
}
