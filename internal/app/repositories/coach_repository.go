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
	"github.com/yigit/academy/internal/pkg/logger"
)

var coachColumns = []string{"id", "name", "email", "phone", "diploma", "category_id", "created_at", "updated_at"}

// CoachRepository handles coach database operations
type CoachRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewCoachRepository creates a new CoachRepository
func NewCoachRepository(database *db.PostgresDB) *CoachRepository {
	return &CoachRepository{
		db: database,
		sb: statementBuilder(),
	}
}

// Create inserts a coach
func (r *CoachRepository) Create(ctx context.Context, coach *models.Coach) error {
	coach.Email = models.NormalizeEmail(coach.Email)

	sql, args, err := r.sb.Insert("coaches").
		Columns("name", "email", "phone", "diploma", "category_id").
		Values(coach.Name, coach.Email, coach.Phone, coach.Diploma, coach.CategoryID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create coach query: %w", err)
	}

	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&coach.ID, &coach.CreatedAt, &coach.UpdatedAt); err != nil {
		logger.Error().Err(err).Str("name", coach.Name).Msg("Error executing create coach query")
		return fmt.Errorf("error creating coach: %w", err)
	}

	logger.Info().Int64("coachID", coach.ID).Msg("Coach created successfully")
	return nil
}

// GetByID retrieves a coach by ID
func (r *CoachRepository) GetByID(ctx context.Context, id int64) (*models.Coach, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves the oldest coach with the given email
func (r *CoachRepository) GetByEmail(ctx context.Context, email string) (*models.Coach, error) {
	return r.getOne(ctx, squirrel.Eq{"LOWER(email)": models.NormalizeEmail(email)})
}

func (r *CoachRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Coach, error) {
	sql, args, err := r.sb.Select(coachColumns...).From("coaches").Where(where).OrderBy("id").Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get coach query: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying coach: %w", err)
	}

	coach, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[models.Coach])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCoachNotFound
		}
		return nil, fmt.Errorf("error scanning coach: %w", err)
	}
	return coach, nil
}

// FindByName returns coaches whose name contains the claimed name, in id order
func (r *CoachRepository) FindByName(ctx context.Context, name string) ([]*models.Coach, error) {
	sql, args, err := r.sb.Select(coachColumns...).
		From("coaches").
		Where(squirrel.ILike{"name": containsPattern(name)}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find coaches query: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying coaches: %w", err)
	}

	coaches, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[models.Coach])
	if err != nil {
		return nil, fmt.Errorf("error scanning coaches: %w", err)
	}
	return coaches, nil
}

// SetEmailIfEmpty fills a coach's email only when none is recorded
func (r *CoachRepository) SetEmailIfEmpty(ctx context.Context, coachID int64, email string) (bool, error) {
	sql, args, err := r.sb.Update("coaches").
		Set("email", models.NormalizeEmail(email)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": coachID}).
		Where(squirrel.Or{squirrel.Eq{"email": nil}, squirrel.Eq{"email": ""}}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build set coach email query: %w", err)
	}

	tag, err := r.db.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("error setting coach email: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
