package category

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pennywise/pennywise/internal/database"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	Store(ctx context.Context, userId int, category Category) (Category, error)
	GetAll(ctx context.Context, userId int) ([]Category, error)
	Get(ctx context.Context, userId int, id int) (Category, error)
	Update(ctx context.Context, userId int, category Category) (bool, error)
	Delete(ctx context.Context, userId int, id int) (bool, error)
}

type RepoImpl struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Store(ctx context.Context, userId int, category Category) (Category, error) {
	query := `INSERT INTO categories (user_id, name, type, description) VALUES ($1, $2, $3, $4)
				RETURNING id, created, updated`
	err := r.db.QueryRow(ctx, query, userId, category.Name, category.Type, category.Description).
		Scan(&category.Id, &category.Created, &category.Updated)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return Category{}, ErrCategoryNameTaken
		}
		log.Errorf("failed to store category: %v", err)
		return Category{}, err
	}
	return category, nil
}

func (r *RepoImpl) GetAll(ctx context.Context, userId int) ([]Category, error) {
	query := `SELECT id, name, type, description, created, updated FROM categories WHERE user_id = $1 ORDER BY name, id`
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		log.Errorf("failed to get categories: %v", err)
		return nil, err
	}
	defer rows.Close()

	categories := make([]Category, 0)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.Id, &c.Name, &c.Type, &c.Description, &c.Created, &c.Updated); err != nil {
			log.Errorf("failed to scan category: %v", err)
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *RepoImpl) Get(ctx context.Context, userId int, id int) (Category, error) {
	query := `SELECT id, name, type, description, created, updated FROM categories WHERE user_id = $1 AND id = $2`
	var c Category
	err := r.db.QueryRow(ctx, query, userId, id).Scan(&c.Id, &c.Name, &c.Type, &c.Description, &c.Created, &c.Updated)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, ErrCategoryNotFound
	} else if err != nil {
		log.Errorf("failed to get category: %v", err)
		return Category{}, err
	}
	return c, nil
}

func (r *RepoImpl) Update(ctx context.Context, userId int, category Category) (bool, error) {
	query := `UPDATE categories SET name = $1, type = $2, description = $3, updated = now()
				WHERE user_id = $4 AND id = $5`
	result, err := r.db.Exec(ctx, query, category.Name, category.Type, category.Description, userId, category.Id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return false, ErrCategoryNameTaken
		}
		log.Errorf("failed to update category: %v", err)
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *RepoImpl) Delete(ctx context.Context, userId int, id int) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM categories WHERE user_id = $1 AND id = $2`, userId, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return false, ErrCategoryInUse
		}
		log.Errorf("failed to delete category: %v", err)
		return false, err
	}
	return result.RowsAffected() > 0, nil
}
