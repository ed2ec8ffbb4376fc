package budget

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pennywise/pennywise/internal/database"
	"github.com/pennywise/pennywise/pkg/period"
	log "github.com/sirupsen/logrus"
)

type BudgetRepo interface {
	Store(ctx context.Context, userId int, budget Budget) (Budget, error)
	GetAll(ctx context.Context, userId int, filter Filter) ([]Budget, error)
	Get(ctx context.Context, userId int, id int) (Budget, error)
	Update(ctx context.Context, userId int, budget Budget) (bool, error)
	Delete(ctx context.Context, userId int, budgetId int) (bool, error)
}

type BudgetRepoImpl struct {
	db *pgxpool.Pool
}

func NewBudgetRepo(db *pgxpool.Pool) *BudgetRepoImpl {
	return &BudgetRepoImpl{db: db}
}

const selectBudgets = `SELECT b.id, b.category_id, c.name, b.amount, b.month, b.created, b.updated
	FROM budgets b JOIN categories c ON c.id = b.category_id`

var orderColumns = map[OrderField]string{
	OrderByMonth:   "b.month",
	OrderByAmount:  "b.amount",
	OrderByCreated: "b.created",
}

func (r *BudgetRepoImpl) Store(ctx context.Context, userId int, budget Budget) (Budget, error) {
	query := `INSERT INTO budgets (user_id, category_id, amount, month)
				SELECT $1, c.id, $3, $4 FROM categories c WHERE c.id = $2 AND c.user_id = $1
				RETURNING id`
	var id int
	err := r.db.QueryRow(ctx, query, userId, budget.CategoryId, budget.Amount, budget.Month.FirstDay()).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return Budget{}, ErrUnknownCategory
	} else if err != nil {
		if database.IsUniqueViolation(err) {
			return Budget{}, ErrBudgetAlreadyExists
		}
		log.Errorf("failed to store budget: %v", err)
		return Budget{}, err
	}
	return r.Get(ctx, userId, id)
}

func (r *BudgetRepoImpl) GetAll(ctx context.Context, userId int, filter Filter) ([]Budget, error) {
	var sb strings.Builder
	sb.WriteString(selectBudgets)
	sb.WriteString(" WHERE b.user_id = $1")
	args := []any{userId}

	if filter.CategoryId != 0 {
		args = append(args, filter.CategoryId)
		fmt.Fprintf(&sb, " AND b.category_id = $%d", len(args))
	}
	if !filter.Month.IsZero() {
		args = append(args, filter.Month.FirstDay())
		fmt.Fprintf(&sb, " AND b.month = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		fmt.Fprintf(&sb, " AND c.name ILIKE $%d", len(args))
	}

	ordering := filter.Ordering
	if ordering.Field == "" {
		ordering = DefaultOrdering
	}
	direction := "ASC"
	if ordering.Descending {
		direction = "DESC"
	}
	fmt.Fprintf(&sb, " ORDER BY %s %s, c.name ASC, b.id ASC", orderColumns[ordering.Field], direction)

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		log.Errorf("failed to get budgets: %v", err)
		return nil, err
	}
	defer rows.Close()

	budgets := make([]Budget, 0)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			log.Errorf("failed to scan budget: %v", err)
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (r *BudgetRepoImpl) Get(ctx context.Context, userId int, id int) (Budget, error) {
	b, err := scanBudget(r.db.QueryRow(ctx, selectBudgets+" WHERE b.user_id = $1 AND b.id = $2", userId, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Budget{}, ErrBudgetNotFound
	} else if err != nil {
		log.Errorf("failed to get budget: %v", err)
		return Budget{}, err
	}
	return b, nil
}

func (r *BudgetRepoImpl) Update(ctx context.Context, userId int, budget Budget) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var owned bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1 AND user_id = $2)`,
		budget.CategoryId, userId).Scan(&owned)
	if err != nil {
		return false, err
	}
	if !owned {
		return false, ErrUnknownCategory
	}

	result, err := tx.Exec(ctx,
		`UPDATE budgets SET category_id = $1, amount = $2, month = $3, updated = now() WHERE user_id = $4 AND id = $5`,
		budget.CategoryId, budget.Amount, budget.Month.FirstDay(), userId, budget.Id,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return false, ErrBudgetAlreadyExists
		}
		log.Errorf("failed to update budget: %v", err)
		return false, err
	}
	if result.RowsAffected() == 0 {
		return false, nil
	}
	return true, tx.Commit(ctx)
}

func (r *BudgetRepoImpl) Delete(ctx context.Context, userId int, budgetId int) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM budgets WHERE user_id = $1 AND id = $2`, userId, budgetId)
	if err != nil {
		log.Errorf("failed to delete budget: %v", err)
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func scanBudget(row pgx.Row) (Budget, error) {
	var b Budget
	var month time.Time
	err := row.Scan(&b.Id, &b.CategoryId, &b.CategoryName, &b.Amount, &month, &b.Created, &b.Updated)
	b.Month = period.MonthOf(month)
	return b, err
}
