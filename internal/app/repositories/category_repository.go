package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/db"
	"github.com/yigit/academy/internal/pkg/apperrors"
)

// CategoryRepository handles category database operations
type CategoryRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(database *db.PostgresDB) *CategoryRepository {
	return &CategoryRepository{
		db: database,
		sb: statementBuilder(),
	}
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	sql, args, err := r.sb.Select("id", "name").From("categories").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get category query: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying category: %w", err)
	}

	category, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[models.Category])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("error scanning category: %w", err)
	}
	return category, nil
}

// Ensure inserts the category with its fixed id unless it already exists
func (r *CategoryRepository) Ensure(ctx context.Context, category *models.Category) error {
	sql, args, err := r.sb.Insert("categories").
		Columns("id", "name").
		Values(category.ID, category.Name).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build ensure category query: %w", err)
	}

	if _, err := r.db.Conn(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error ensuring category: %w", err)
	}

	// Keep the identity sequence ahead of explicitly inserted ids
	if _, err := r.db.Conn(ctx).Exec(ctx,
		"SELECT setval(pg_get_serial_sequence('categories', 'id'), GREATEST((SELECT MAX(id) FROM categories), 1))"); err != nil {
		return fmt.Errorf("error syncing category sequence: %w", err)
	}
	return nil
}
