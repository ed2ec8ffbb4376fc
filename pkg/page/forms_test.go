package page

import (
	"strings"
	"testing"
	"time"

	"github.com/pennywise/pennywise/internal/utils"
	"github.com/pennywise/pennywise/pkg/budget"
	"github.com/pennywise/pennywise/pkg/category"
	"github.com/pennywise/pennywise/pkg/period"
	"github.com/pennywise/pennywise/pkg/transaction"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionForm_Validate(t *testing.T) {
	valid := TransactionForm{Category: "3", Amount: "12.50", Type: category.Expense, Date: "2024-03-02"}
	tests := []struct {
		name   string
		change func(f *TransactionForm)
		valid  bool
	}{
		{name: "valid", change: func(f *TransactionForm) {}, valid: true},
		{name: "missing category", change: func(f *TransactionForm) { f.Category = "" }},
		{name: "category not a number", change: func(f *TransactionForm) { f.Category = "food" }},
		{name: "zero amount", change: func(f *TransactionForm) { f.Amount = "0" }},
		{name: "negative amount", change: func(f *TransactionForm) { f.Amount = "-4" }},
		{name: "amount with three decimals", change: func(f *TransactionForm) { f.Amount = "1.005" }},
		{name: "amount not a number", change: func(f *TransactionForm) { f.Amount = "ten" }},
		{name: "bad date", change: func(f *TransactionForm) { f.Date = "02/03/2024" }},
		{name: "bad type", change: func(f *TransactionForm) { f.Type = "transfer" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			tt.change(&form)

			err := form.Validate()

			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidForm)
			}
		})
	}
}

func TestTransactionFormOf(t *testing.T) {
	date, err := period.ParseDate("2024-03-02")
	require.NoError(t, err)
	record := transaction.Transaction{
		Id:          9,
		CategoryId:  3,
		Amount:      decimal.RequireFromString("1250.75"),
		Type:        category.Income,
		Description: "bonus",
		Date:        date,
	}

	form := TransactionFormOf(record)

	assert.Equal(t, TransactionForm{Id: 9, Category: "3", Amount: "1250.75", Type: category.Income, Description: "bonus", Date: "2024-03-02"}, form)
	back, err := form.Record()
	require.NoError(t, err)
	assert.Equal(t, record.Id, back.Id)
	assert.True(t, record.Amount.Equal(back.Amount))
	assert.Equal(t, record.Date, back.Date)
	assert.Equal(t, record.Description, back.Description)
}

func TestNewTransactionForm(t *testing.T) {
	clock := &utils.MockClock{FixedNow: time.Date(2024, 3, 9, 18, 0, 0, 0, time.UTC)}

	form := NewTransactionForm(clock)

	assert.Equal(t, category.Expense, form.Type)
	assert.Equal(t, "2024-03-09", form.Date)
	assert.Empty(t, form.Amount)
}

func TestBudgetForm(t *testing.T) {
	march := period.Month{Year: 2024, Month: time.March}
	record := budget.Budget{Id: 4, CategoryId: 2, Amount: decimal.NewFromInt(400), Month: march}

	form := BudgetFormOf(record)
	assert.Equal(t, BudgetForm{Id: 4, Category: "2", Amount: "400", Month: "2024-03"}, form)
	back, err := form.Record()
	require.NoError(t, err)
	assert.Equal(t, march, back.Month)

	form.Month = "2024-03-17"
	back, err = form.Record()
	require.NoError(t, err)
	assert.Equal(t, march, back.Month)

	form.Month = "March"
	assert.ErrorIs(t, form.Validate(), ErrInvalidForm)

	clock := &utils.MockClock{FixedNow: time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "2024-04", NewBudgetForm(clock).Month)
}

func TestProfileForm_Validate(t *testing.T) {
	tests := []struct {
		name  string
		form  ProfileForm
		valid bool
	}{
		{name: "profile only", form: ProfileForm{Email: "jane@example.com", FirstName: "Jane"}, valid: true},
		{name: "password change", form: ProfileForm{Email: "jane@example.com", CurrentPassword: "old-password", NewPassword: "new-password", ConfirmPassword: "new-password"}, valid: true},
		{name: "bad email", form: ProfileForm{Email: "jane"}},
		{name: "new password without current", form: ProfileForm{Email: "jane@example.com", NewPassword: "new-password", ConfirmPassword: "new-password"}},
		{name: "confirmation mismatch", form: ProfileForm{Email: "jane@example.com", CurrentPassword: "old-password", NewPassword: "new-password", ConfirmPassword: "new-passw0rd"}},
		{name: "short new password", form: ProfileForm{Email: "jane@example.com", CurrentPassword: "old-password", NewPassword: "short", ConfirmPassword: "short"}},
		{name: "new password over bcrypt limit", form: ProfileForm{Email: "jane@example.com", CurrentPassword: "old-password", NewPassword: strings.Repeat("x", 73), ConfirmPassword: strings.Repeat("x", 73)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidForm)
			}
		})
	}
}
