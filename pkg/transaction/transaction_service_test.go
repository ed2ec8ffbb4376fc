package transaction

import (
	"context"
	"testing"
	"time"

	"github.com/pennywise/pennywise/internal/event_bus"
	"github.com/pennywise/pennywise/pkg/category"
	"github.com/pennywise/pennywise/pkg/period"
	"github.com/pennywise/pennywise/pkg/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = user.WithUser(context.Background(), user.User{Id: 1, Uid: "uid-1"})
var otherUserCtx = user.WithUser(context.Background(), user.User{Id: 2, Uid: "uid-2"})

var transactionRepoStub = NewStubTransactionRepo()

var service *ServiceImpl
var published []event_bus.TransactionChanged

func setup(t *testing.T) func() {
	bus := event_bus.NewEventBus()
	published = nil
	event_bus.SubscribeTyped(bus, event_bus.TransactionChangedEvent, func(e event_bus.EventT[event_bus.TransactionChanged]) error {
		published = append(published, e.Data)
		return nil
	})
	service = NewService(transactionRepoStub, bus)
	transactionRepoStub.AddCategory(1, "Salary")
	transactionRepoStub.AddCategory(2, "Groceries")
	transactionRepoStub.AddCategory(3, "Rent")
	return func() {
		t.Log("Teardown after test")
		transactionRepoStub.Cleanup()
	}
}

func date(s string) time.Time {
	d, err := period.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTransaction(categoryId int, amount string, txType category.Type, day string, description string) Transaction {
	return Transaction{
		CategoryId:  categoryId,
		Amount:      decimal.RequireFromString(amount),
		Type:        txType,
		Date:        date(day),
		Description: description,
	}
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should create a transaction with its category name", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		created, err := service.Create(ctx, newTransaction(2, "25.40", category.Expense, "2024-03-05", "weekly shop"))

		// then
		require.NoError(t, err)
		assert.NotZero(t, created.Id)
		assert.Equal(t, "Groceries", created.CategoryName)
		assert.True(t, decimal.RequireFromString("25.40").Equal(created.Amount))
		require.Len(t, published, 1)
		assert.Equal(t, event_bus.Created, published[0].Change)
		assert.Equal(t, 1, published[0].UserId)
	})

	t.Run("should reject invalid transactions", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		cases := map[string]Transaction{
			"missing category": newTransaction(0, "10", category.Expense, "2024-03-05", ""),
			"zero amount":      newTransaction(2, "0", category.Expense, "2024-03-05", ""),
			"negative amount":  newTransaction(2, "-5", category.Expense, "2024-03-05", ""),
			"too many places":  newTransaction(2, "1.005", category.Expense, "2024-03-05", ""),
			"unknown type":     newTransaction(2, "10", "transfer", "2024-03-05", ""),
			"missing date":     {CategoryId: 2, Amount: decimal.NewFromInt(10), Type: category.Expense},
		}
		for name, tx := range cases {
			_, err := service.Create(ctx, tx)
			assert.ErrorIs(t, err, ErrTransactionInvalid, name)
		}
		assert.Empty(t, published)
	})

	t.Run("should reject an unknown category", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		_, err := service.Create(ctx, newTransaction(99, "10", category.Expense, "2024-03-05", ""))

		assert.ErrorIs(t, err, ErrUnknownCategory)
	})
}

func TestServiceImpl_GetAll(t *testing.T) {
	t.Run("should filter and order transactions", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		_, _ = service.Create(ctx, newTransaction(1, "50000", category.Income, "2024-03-01", "salary"))
		_, _ = service.Create(ctx, newTransaction(2, "2500", category.Expense, "2024-03-10", "market"))
		_, _ = service.Create(ctx, newTransaction(3, "15000", category.Expense, "2024-03-02", "march rent"))
		_, _ = service.Create(ctx, newTransaction(3, "15000", category.Expense, "2024-02-02", "february rent"))
		_, _ = service.Create(otherUserCtx, newTransaction(2, "1", category.Expense, "2024-03-03", "not mine"))

		all, err := service.GetAll(ctx, Filter{})
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, "market", all[0].Description, "newest first by default")

		march, err := service.GetAll(ctx, Filter{Month: period.Month{Year: 2024, Month: time.March}, Type: category.Expense})
		require.NoError(t, err)
		require.Len(t, march, 2)

		byAmount, err := service.GetAll(ctx, Filter{Month: period.Month{Year: 2024, Month: time.March}, Ordering: Ordering{Field: OrderByAmount}})
		require.NoError(t, err)
		require.Len(t, byAmount, 3)
		assert.Equal(t, "market", byAmount[0].Description)
		assert.Equal(t, "salary", byAmount[2].Description)

		searched, err := service.GetAll(ctx, Filter{Search: " RENT "})
		require.NoError(t, err)
		assert.Len(t, searched, 2)

		bySearchOnCategory, err := service.GetAll(ctx, Filter{Search: "grocer"})
		require.NoError(t, err)
		require.Len(t, bySearchOnCategory, 1)
		assert.Equal(t, "market", bySearchOnCategory[0].Description)

		ranged, err := service.GetAll(ctx, Filter{DateFrom: date("2024-03-02"), DateTo: date("2024-03-09")})
		require.NoError(t, err)
		require.Len(t, ranged, 1)
		assert.Equal(t, "march rent", ranged[0].Description)
	})
}

func TestServiceImpl_UpdateAndDelete(t *testing.T) {
	t.Run("should update a transaction", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		created, _ := service.Create(ctx, newTransaction(2, "10", category.Expense, "2024-03-05", "snack"))

		created.CategoryId = 3
		created.Amount = decimal.RequireFromString("12.50")
		updated, err := service.Update(ctx, created)

		require.NoError(t, err)
		assert.Equal(t, "Rent", updated.CategoryName)
		assert.True(t, decimal.RequireFromString("12.50").Equal(updated.Amount))
		assert.Equal(t, event_bus.Updated, published[len(published)-1].Change)
	})

	t.Run("should not touch transactions of another user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		created, _ := service.Create(ctx, newTransaction(2, "10", category.Expense, "2024-03-05", "snack"))

		_, err := service.Update(otherUserCtx, created)
		assert.ErrorIs(t, err, ErrTransactionNotFound)

		err = service.Delete(otherUserCtx, created.Id)
		assert.ErrorIs(t, err, ErrTransactionNotFound)

		err = service.Delete(ctx, created.Id)
		assert.NoError(t, err)
		assert.Equal(t, event_bus.Deleted, published[len(published)-1].Change)
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		_, err := service.GetAll(context.Background(), Filter{})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestParseOrdering(t *testing.T) {
	ordering, err := ParseOrdering("-amount")
	require.NoError(t, err)
	assert.Equal(t, Ordering{Field: OrderByAmount, Descending: true}, ordering)

	ordering, err = ParseOrdering("")
	require.NoError(t, err)
	assert.Equal(t, DefaultOrdering, ordering)

	_, err = ParseOrdering("description")
	assert.Error(t, err)
}
