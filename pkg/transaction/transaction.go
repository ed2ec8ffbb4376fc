package transaction

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pennywise/pennywise/pkg/category"
	"github.com/pennywise/pennywise/pkg/period"
	"github.com/shopspring/decimal"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrTransactionInvalid  = errors.New("invalid transaction")
	ErrUnknownCategory     = errors.New("category does not exist")
)

type Transaction struct {
	Id           int
	CategoryId   int
	CategoryName string
	Amount       decimal.Decimal
	Type         category.Type
	Description  string
	Date         time.Time
	Created      time.Time
	Updated      time.Time
}

func (t Transaction) Validate() error {
	if t.CategoryId <= 0 {
		return fmt.Errorf("%w: category is required", ErrTransactionInvalid)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrTransactionInvalid)
	}
	if !t.Amount.Equal(t.Amount.Round(2)) {
		return fmt.Errorf("%w: amount can have at most 2 decimal places", ErrTransactionInvalid)
	}
	if !t.Type.Valid() {
		return fmt.Errorf("%w: type must be income or expense", ErrTransactionInvalid)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrTransactionInvalid)
	}
	return nil
}

type OrderField string

const (
	OrderByDate    OrderField = "date"
	OrderByAmount  OrderField = "amount"
	OrderByCreated OrderField = "created"
)

// Ordering is a sort field with direction. The zero value orders by date, newest first.
type Ordering struct {
	Field      OrderField
	Descending bool
}

var DefaultOrdering = Ordering{Field: OrderByDate, Descending: true}

// ParseOrdering reads "date", "-amount" and similar; a leading '-' means descending.
func ParseOrdering(s string) (Ordering, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultOrdering, nil
	}
	ordering := Ordering{}
	if strings.HasPrefix(s, "-") {
		ordering.Descending = true
		s = s[1:]
	}
	switch OrderField(s) {
	case OrderByDate, OrderByAmount, OrderByCreated:
		ordering.Field = OrderField(s)
	case "created_at":
		ordering.Field = OrderByCreated
	default:
		return Ordering{}, fmt.Errorf("unknown ordering field %q", s)
	}
	return ordering, nil
}

func (o Ordering) String() string {
	if o.Descending {
		return "-" + string(o.Field)
	}
	return string(o.Field)
}

// Filter narrows the list of transactions. Zero fields are ignored.
type Filter struct {
	Type       category.Type
	CategoryId int
	Month      period.Month
	DateFrom   time.Time
	DateTo     time.Time
	Search     string
	Ordering   Ordering
}

// Matches applies the filter to a single transaction, ignoring ordering.
func (f Filter) Matches(t Transaction) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.CategoryId != 0 && t.CategoryId != f.CategoryId {
		return false
	}
	if !f.Month.IsZero() && !f.Month.Contains(t.Date) {
		return false
	}
	if !f.DateFrom.IsZero() && t.Date.Before(f.DateFrom) {
		return false
	}
	if !f.DateTo.IsZero() && t.Date.After(f.DateTo) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Description), needle) &&
			!strings.Contains(strings.ToLower(t.CategoryName), needle) {
			return false
		}
	}
	return true
}
