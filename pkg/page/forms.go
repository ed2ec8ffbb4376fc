package page

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pennywise/pennywise/internal/utils"
	"github.com/pennywise/pennywise/pkg/budget"
	"github.com/pennywise/pennywise/pkg/category"
	"github.com/pennywise/pennywise/pkg/period"
	"github.com/pennywise/pennywise/pkg/transaction"
	"github.com/shopspring/decimal"
)

var ErrInvalidForm = errors.New("invalid form")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidForm}, args...)...)
}

func parseCategory(s string) (int, error) {
	if strings.TrimSpace(s) == "" {
		return 0, invalid("category is required")
	}
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, invalid("category %q is not valid", s)
	}
	return id, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, invalid("amount %q is not a number", s)
	}
	if !amount.IsPositive() {
		return decimal.Decimal{}, invalid("amount must be positive")
	}
	if !amount.Equal(amount.Round(2)) {
		return decimal.Decimal{}, invalid("amount can have at most 2 decimal places")
	}
	return amount, nil
}

type CategoryForm struct {
	Id          int
	Name        string
	Type        category.Type
	Description string
}

func CategoryFormOf(c category.Category) CategoryForm {
	return CategoryForm{Id: c.Id, Name: c.Name, Type: c.Type, Description: c.Description}
}

func (f CategoryForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return invalid("name is required")
	}
	if !f.Type.Valid() {
		return invalid("type must be income or expense")
	}
	return nil
}

func (f CategoryForm) Record() (category.Category, error) {
	return category.Category{Id: f.Id, Name: strings.TrimSpace(f.Name), Type: f.Type, Description: f.Description}, nil
}

// TransactionForm holds the editor inputs as typed by the user.
type TransactionForm struct {
	Id          int
	Category    string
	Amount      string
	Type        category.Type
	Description string
	Date        string
}

func TransactionFormOf(t transaction.Transaction) TransactionForm {
	return TransactionForm{
		Id:          t.Id,
		Category:    strconv.Itoa(t.CategoryId),
		Amount:      t.Amount.String(),
		Type:        t.Type,
		Description: t.Description,
		Date:        t.Date.Format(period.DateLayout),
	}
}

// NewTransactionForm is an expense dated today.
func NewTransactionForm(clock utils.Clock) TransactionForm {
	return TransactionForm{Type: category.Expense, Date: clock.Now().Format(period.DateLayout)}
}

func (f TransactionForm) Validate() error {
	_, err := f.Record()
	return err
}

func (f TransactionForm) Record() (transaction.Transaction, error) {
	categoryId, err := parseCategory(f.Category)
	if err != nil {
		return transaction.Transaction{}, err
	}
	amount, err := parseAmount(f.Amount)
	if err != nil {
		return transaction.Transaction{}, err
	}
	if !f.Type.Valid() {
		return transaction.Transaction{}, invalid("type must be income or expense")
	}
	date, err := period.ParseDate(strings.TrimSpace(f.Date))
	if err != nil {
		return transaction.Transaction{}, invalid("date must be YYYY-MM-DD")
	}
	return transaction.Transaction{
		Id:          f.Id,
		CategoryId:  categoryId,
		Amount:      amount,
		Type:        f.Type,
		Description: f.Description,
		Date:        date,
	}, nil
}

type BudgetForm struct {
	Id       int
	Category string
	Amount   string
	// Month is YYYY-MM; a full date is accepted and its day ignored.
	Month string
}

func BudgetFormOf(b budget.Budget) BudgetForm {
	return BudgetForm{
		Id:       b.Id,
		Category: strconv.Itoa(b.CategoryId),
		Amount:   b.Amount.String(),
		Month:    b.Month.String(),
	}
}

func NewBudgetForm(clock utils.Clock) BudgetForm {
	return BudgetForm{Month: period.MonthOf(clock.Now()).String()}
}

func (f BudgetForm) Validate() error {
	_, err := f.Record()
	return err
}

func (f BudgetForm) Record() (budget.Budget, error) {
	categoryId, err := parseCategory(f.Category)
	if err != nil {
		return budget.Budget{}, err
	}
	amount, err := parseAmount(f.Amount)
	if err != nil {
		return budget.Budget{}, err
	}
	month, err := period.ParseMonth(strings.TrimSpace(f.Month))
	if err != nil {
		return budget.Budget{}, invalid("month must be YYYY-MM")
	}
	return budget.Budget{Id: f.Id, CategoryId: categoryId, Amount: amount, Month: month}, nil
}
