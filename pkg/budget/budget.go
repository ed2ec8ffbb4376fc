package budget

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pennywise/pennywise/pkg/period"
	"github.com/shopspring/decimal"
)

var (
	ErrBudgetNotFound      = errors.New("budget not found")
	ErrBudgetInvalid       = errors.New("invalid budget")
	ErrBudgetAlreadyExists = errors.New("budget for this category and month already exists")
	ErrUnknownCategory     = errors.New("category does not exist")
)

// Budget is the monthly spending ceiling of one category.
type Budget struct {
	Id           int
	CategoryId   int
	CategoryName string
	Amount       decimal.Decimal
	Month        period.Month
	Created      time.Time
	Updated      time.Time
}

func (b Budget) Validate() error {
	if b.CategoryId <= 0 {
		return fmt.Errorf("%w: category is required", ErrBudgetInvalid)
	}
	if !b.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrBudgetInvalid)
	}
	if !b.Amount.Equal(b.Amount.Round(2)) {
		return fmt.Errorf("%w: amount can have at most 2 decimal places", ErrBudgetInvalid)
	}
	if b.Month.IsZero() {
		return fmt.Errorf("%w: month is required", ErrBudgetInvalid)
	}
	return nil
}

type OrderField string

const (
	OrderByMonth   OrderField = "month"
	OrderByAmount  OrderField = "amount"
	OrderByCreated OrderField = "created"
)

type Ordering struct {
	Field      OrderField
	Descending bool
}

var DefaultOrdering = Ordering{Field: OrderByMonth, Descending: true}

func ParseOrdering(s string) (Ordering, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultOrdering, nil
	}
	ordering := Ordering{Descending: strings.HasPrefix(s, "-")}
	switch field := OrderField(strings.TrimPrefix(s, "-")); field {
	case OrderByMonth, OrderByAmount, OrderByCreated:
		ordering.Field = field
	case "created_at":
		ordering.Field = OrderByCreated
	default:
		return Ordering{}, fmt.Errorf("unknown ordering field %q", field)
	}
	return ordering, nil
}

func (o Ordering) String() string {
	if o.Descending {
		return "-" + string(o.Field)
	}
	return string(o.Field)
}

// Filter narrows the list of budgets. Zero fields are ignored.
type Filter struct {
	CategoryId int
	Month      period.Month
	// Search matches the category name, ignoring case.
	Search   string
	Ordering Ordering
}

func (f Filter) Matches(b Budget) bool {
	if f.CategoryId != 0 && b.CategoryId != f.CategoryId {
		return false
	}
	if !f.Month.IsZero() && b.Month != f.Month {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(b.CategoryName), strings.ToLower(f.Search)) {
		return false
	}
	return true
}
