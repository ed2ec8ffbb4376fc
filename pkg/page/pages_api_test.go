package page

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/pennywise/pennywise/internal/app/apptest"
	"github.com/pennywise/pennywise/internal/utils"
	"github.com/pennywise/pennywise/pkg/category"
	"github.com/pennywise/pennywise/pkg/client"
	"github.com/pennywise/pennywise/pkg/period"
	"github.com/pennywise/pennywise/pkg/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

var march = period.Month{Year: 2024, Month: time.March}

func newAPI(t *testing.T) (*client.Client, *apptest.Server) {
	server := apptest.NewServer(t)
	_, tokens := server.Register(t, "jane@example.com")
	api := client.New(server.ApiUrl(), client.WithRetryInterval(time.Millisecond)).
		Authenticated(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tokens.Access}))
	return api, server
}

func TestTransactionsPage_WithAPI(t *testing.T) {
	api, _ := newAPI(t)
	ctx := context.Background()
	clock := &utils.MockClock{FixedNow: time.Date(2024, 3, 31, 9, 0, 0, 0, time.UTC)}
	categories := NewCategoriesPage(api)
	categories.OpenEditor(nil)
	require.NoError(t, categories.Submit(ctx, CategoryForm{Name: "Groceries", Type: category.Expense}))
	groceries := categories.Records()[0]

	transactions := NewTransactionsPage(api, clock)
	for i := 1; i <= 12; i++ {
		editor := transactions.OpenEditor(nil)
		editor.Form.Category = strconv.Itoa(groceries.Id)
		editor.Form.Amount = strconv.Itoa(i) + ".00"
		editor.Form.Date = march.FirstDay().AddDate(0, 0, i-1).Format(period.DateLayout)
		require.NoError(t, transactions.Submit(ctx, editor.Form))
	}

	// newest first
	require.Len(t, transactions.Records(), 12)
	assert.Len(t, transactions.Visible(), 10)
	assert.Equal(t, "2024-03-12", transactions.Visible()[0].Date.Format(period.DateLayout))
	transactions.SetPage(1)
	assert.Len(t, transactions.Visible(), 2)

	// editing keeps every field of the record
	record := transactions.Records()[0]
	editor := transactions.OpenEditor(&record)
	assert.Equal(t, TransactionFormOf(record), editor.Form)
	editor.Form.Description = "weekly shop"
	require.NoError(t, transactions.Submit(ctx, editor.Form))

	transactions.SetFilter(transaction.Filter{Search: "weekly"})
	require.NoError(t, transactions.List(ctx))
	require.Len(t, transactions.Records(), 1)
	assert.Equal(t, "Groceries", transactions.Records()[0].CategoryName)

	err := transactions.Delete(ctx, record.Id, decline)
	assert.ErrorIs(t, err, ErrDeleteNotConfirmed)
	require.NoError(t, transactions.Delete(ctx, record.Id, confirm))
	assert.Empty(t, transactions.Records())

	budgets := NewBudgetsPage(api, clock)
	editorB := budgets.OpenEditor(nil)
	assert.Equal(t, "2024-03", editorB.Form.Month)
	editorB.Form.Category = strconv.Itoa(groceries.Id)
	editorB.Form.Amount = "100"
	require.NoError(t, budgets.Submit(ctx, editorB.Form))
	budgets.OpenEditor(nil)
	err = budgets.Submit(ctx, editorB.Form)
	assert.ErrorIs(t, err, client.ErrConflict)
	assert.ErrorIs(t, budgets.Err(), client.ErrConflict)

	dashboard := NewDashboard(api)
	require.NoError(t, dashboard.Refresh(ctx, march))
	s := dashboard.Summary()
	// 1+2+...+11, the twelfth was deleted
	assert.Equal(t, "66", s.TotalExpenses.String())
	assert.Equal(t, "34", s.BudgetVsActual.String())
	incomeExpense, budgetActual := dashboard.Charts()
	require.Len(t, incomeExpense.Slices, 2)
	assert.InDelta(t, 1.0, incomeExpense.Slices[1].Fraction, 1e-9)
	require.Len(t, budgetActual.Slices, 2)

	require.NoError(t, dashboard.Refresh(ctx, march.Previous()))
	incomeExpense, _ = dashboard.Charts()
	assert.True(t, incomeExpense.Empty())
}

func TestProfilePage_WithAPI(t *testing.T) {
	api, server := newAPI(t)
	ctx := context.Background()
	profile := NewProfilePage(api)
	require.NoError(t, profile.Load(ctx))

	form := profile.Form()
	assert.Equal(t, "jane@example.com", form.Email)
	assert.Equal(t, "Jane", form.FirstName)

	form.FirstName = "Janet"
	require.NoError(t, profile.Submit(ctx, form))
	assert.Equal(t, "Janet", profile.Profile().FirstName)

	form.CurrentPassword = "not-my-password"
	form.NewPassword = "brand-new-password"
	form.ConfirmPassword = "brand-new-password"
	err := profile.Submit(ctx, form)
	assert.ErrorIs(t, err, client.ErrValidation)
	assert.Error(t, profile.Err())
	profile.DismissError()
	assert.NoError(t, profile.Err())

	form.CurrentPassword = apptest.Password
	require.NoError(t, profile.Submit(ctx, form))
	_, err = client.New(server.ApiUrl()).Login(ctx, "jane@example.com", "brand-new-password")
	assert.NoError(t, err)
}
