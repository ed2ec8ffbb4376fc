package transaction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	Store(ctx context.Context, userId int, transaction Transaction) (Transaction, error)
	GetAll(ctx context.Context, userId int, filter Filter) ([]Transaction, error)
	Get(ctx context.Context, userId int, id int) (Transaction, error)
	Update(ctx context.Context, userId int, transaction Transaction) (bool, error)
	Delete(ctx context.Context, userId int, id int) (bool, error)
}

type RepoImpl struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *RepoImpl {
	return &RepoImpl{db: db}
}

const selectTransactions = `SELECT t.id, t.category_id, c.name, t.amount, t.type, t.description, t.date, t.created, t.updated
	FROM transactions t JOIN categories c ON c.id = t.category_id`

var orderColumns = map[OrderField]string{
	OrderByDate:    "t.date",
	OrderByAmount:  "t.amount",
	OrderByCreated: "t.created",
}

// Store inserts the transaction only when the category belongs to the same user.
func (r *RepoImpl) Store(ctx context.Context, userId int, transaction Transaction) (Transaction, error) {
	query := `INSERT INTO transactions (user_id, category_id, amount, type, description, date)
				SELECT $1, c.id, $3, $4, $5, $6 FROM categories c WHERE c.id = $2 AND c.user_id = $1
				RETURNING id`
	var id int
	err := r.db.QueryRow(ctx, query,
		userId,
		transaction.CategoryId,
		transaction.Amount,
		transaction.Type,
		transaction.Description,
		transaction.Date,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, ErrUnknownCategory
	} else if err != nil {
		log.Errorf("failed to store transaction: %v", err)
		return Transaction{}, err
	}
	return r.Get(ctx, userId, id)
}

func (r *RepoImpl) GetAll(ctx context.Context, userId int, filter Filter) ([]Transaction, error) {
	var sb strings.Builder
	sb.WriteString(selectTransactions)
	sb.WriteString(" WHERE t.user_id = $1")
	args := []any{userId}
	addCondition := func(condition string, arg any) {
		args = append(args, arg)
		fmt.Fprintf(&sb, " AND "+condition, len(args))
	}

	if filter.Type != "" {
		addCondition("t.type = $%d", filter.Type)
	}
	if filter.CategoryId != 0 {
		addCondition("t.category_id = $%d", filter.CategoryId)
	}
	if !filter.Month.IsZero() {
		addCondition("t.date >= $%d", filter.Month.FirstDay())
		addCondition("t.date <= $%d", filter.Month.LastDay())
	}
	if !filter.DateFrom.IsZero() {
		addCondition("t.date >= $%d", filter.DateFrom)
	}
	if !filter.DateTo.IsZero() {
		addCondition("t.date <= $%d", filter.DateTo)
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		fmt.Fprintf(&sb, " AND (t.description ILIKE $%d OR c.name ILIKE $%d)", len(args), len(args))
	}

	ordering := filter.Ordering
	if ordering.Field == "" {
		ordering = DefaultOrdering
	}
	direction := "ASC"
	if ordering.Descending {
		direction = "DESC"
	}
	fmt.Fprintf(&sb, " ORDER BY %s %s, t.id %s", orderColumns[ordering.Field], direction, direction)

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		log.Errorf("failed to get transactions: %v", err)
		return nil, err
	}
	defer rows.Close()

	transactions := make([]Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			log.Errorf("failed to scan transaction: %v", err)
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (r *RepoImpl) Get(ctx context.Context, userId int, id int) (Transaction, error) {
	row := r.db.QueryRow(ctx, selectTransactions+" WHERE t.user_id = $1 AND t.id = $2", userId, id)
	t, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, ErrTransactionNotFound
	} else if err != nil {
		log.Errorf("failed to get transaction: %v", err)
		return Transaction{}, err
	}
	return t, nil
}

func (r *RepoImpl) Update(ctx context.Context, userId int, transaction Transaction) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var owned bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1 AND user_id = $2)`,
		transaction.CategoryId, userId).Scan(&owned)
	if err != nil {
		return false, err
	}
	if !owned {
		return false, ErrUnknownCategory
	}

	query := `UPDATE transactions SET category_id = $1, amount = $2, type = $3, description = $4, date = $5, updated = now()
				WHERE user_id = $6 AND id = $7`
	result, err := tx.Exec(ctx, query,
		transaction.CategoryId,
		transaction.Amount,
		transaction.Type,
		transaction.Description,
		transaction.Date,
		userId,
		transaction.Id,
	)
	if err != nil {
		log.Errorf("failed to update transaction: %v", err)
		return false, err
	}
	if result.RowsAffected() == 0 {
		return false, nil
	}
	return true, tx.Commit(ctx)
}

func (r *RepoImpl) Delete(ctx context.Context, userId int, id int) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1 AND id = $2`, userId, id)
	if err != nil {
		log.Errorf("failed to delete transaction: %v", err)
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func scanTransaction(row pgx.Row) (Transaction, error) {
	var t Transaction
	err := row.Scan(
		&t.Id,
		&t.CategoryId,
		&t.CategoryName,
		&t.Amount,
		&t.Type,
		&t.Description,
		&t.Date,
		&t.Created,
		&t.Updated,
	)
	return t, err
}
