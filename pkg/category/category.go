package category

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategoryNameTaken = errors.New("category with this name already exists")
	ErrCategoryInUse     = errors.New("category is used by transactions or budgets")
	ErrCategoryInvalid   = errors.New("invalid category")
)

// Type tells whether money in a category comes in or goes out. Transactions share the same values.
type Type string

const (
	Income  Type = "income"
	Expense Type = "expense"
)

func ParseType(s string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case Income:
		return Income, nil
	case Expense:
		return Expense, nil
	}
	return "", fmt.Errorf("unknown type %q, expected income or expense", s)
}

func (t Type) Valid() bool {
	return t == Income || t == Expense
}

type Category struct {
	Id          int
	Name        string
	Type        Type
	Description string
	Created     time.Time
	Updated     time.Time
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrCategoryInvalid)
	}
	if !c.Type.Valid() {
		return fmt.Errorf("%w: type must be income or expense", ErrCategoryInvalid)
	}
	return nil
}
