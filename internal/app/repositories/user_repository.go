package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/db"
	"github.com/yigit/academy/internal/pkg/apperrors"
	"github.com/yigit/academy/internal/pkg/dberrors"
	"github.com/yigit/academy/internal/pkg/logger"
)

var userColumns = []string{"id", "name", "email", "password", "role", "player_id", "last_login_at", "created_at", "updated_at"}

// UserRepository handles user database operations
type UserRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(database *db.PostgresDB) *UserRepository {
	return &UserRepository{
		db: database,
		sb: statementBuilder(),
	}
}

// Create inserts a user. The users_email_key constraint is the last defense against duplicate accounts.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = models.NormalizeEmail(user.Email)

	sql, args, err := r.sb.Insert("users").
		Columns("name", "email", "password", "role", "player_id").
		Values(user.Name, user.Email, user.Password, user.RoleType, user.PlayerID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	err = r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			logger.Warn().Str("email", user.Email).Msg("Attempted to create user with duplicate email")
			return apperrors.ErrEmailAlreadyExists
		}
		if dberrors.IsDuplicateConstraintError(err, "users_player_id_key") {
			logger.Warn().Str("email", user.Email).Msg("Attempted to create a second account for a player")
			return apperrors.ErrPlayerAlreadyClaimed
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error executing create user query")
		return fmt.Errorf("error creating user: %w", err)
	}

	logger.Info().Int64("userID", user.ID).Str("role", string(user.RoleType)).Msg("User created successfully")
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves a user by normalized email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"email": models.NormalizeEmail(email)})
}

// GetByPlayerID retrieves the user linked to a player
func (r *UserRepository) GetByPlayerID(ctx context.Context, playerID int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"player_id": playerID})
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).From("users").Where(where).OrderBy("id ASC").Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying user: %w", err)
	}

	user, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[models.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error scanning user: %w", err)
	}
	return user, nil
}

// CompareAndSetPlayerID links a user to a player only if the current link equals expected
func (r *UserRepository) CompareAndSetPlayerID(ctx context.Context, userID int64, expected *int64, playerID int64) (bool, error) {
	where := squirrel.And{squirrel.Eq{"id": userID}}
	if expected == nil {
		where = append(where, squirrel.Eq{"player_id": nil})
	} else {
		where = append(where, squirrel.Eq{"player_id": *expected})
	}

	sql, args, err := r.sb.Update("users").
		Set("player_id", playerID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(where).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build link user query: %w", err)
	}

	tag, err := r.db.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_player_id_key") {
			return false, apperrors.ErrPlayerAlreadyClaimed
		}
		logger.Error().Err(err).Int64("userID", userID).Int64("playerID", playerID).Msg("Error linking user to player")
		return false, fmt.Errorf("error linking user to player: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateLastLogin updates the last login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	sql, args, err := r.sb.Update("users").
		Set("last_login_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update last login query: %w", err)
	}

	if _, err := r.db.Conn(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to update last login time: %w", err)
	}
	return nil
}
