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

var registrationColumns = []string{
	"id", "player_firstname", "player_lastname", "player_birth_date", "player_id", "player_email",
	"parent_name", "parent_email", "parent_phone", "category_id", "status", "payment_status",
	"created_at", "updated_at",
}

// RegistrationRepository handles registration database operations
type RegistrationRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewRegistrationRepository creates a new RegistrationRepository
func NewRegistrationRepository(database *db.PostgresDB) *RegistrationRepository {
	return &RegistrationRepository{
		db: database,
		sb: statementBuilder(),
	}
}

// Create inserts a registration
func (r *RegistrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	reg.ParentEmail = models.NormalizeEmail(reg.ParentEmail)
	if reg.Status == "" {
		reg.Status = models.RegistrationPending
	}
	if reg.PaymentStatus == "" {
		reg.PaymentStatus = models.PaymentUnpaid
	}

	sql, args, err := r.sb.Insert("registrations").
		Columns("player_firstname", "player_lastname", "player_birth_date", "player_id", "player_email",
			"parent_name", "parent_email", "parent_phone", "category_id", "status", "payment_status").
		Values(reg.PlayerFirstName, reg.PlayerLastName, reg.PlayerBirthDate, reg.PlayerID, reg.PlayerEmail,
			reg.ParentName, reg.ParentEmail, reg.ParentPhone, reg.CategoryID, reg.Status, reg.PaymentStatus).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create registration query: %w", err)
	}

	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&reg.ID, &reg.CreatedAt, &reg.UpdatedAt); err != nil {
		logger.Error().Err(err).Str("parentEmail", reg.ParentEmail).Msg("Error executing create registration query")
		return fmt.Errorf("error creating registration: %w", err)
	}
	return nil
}

// GetByID retrieves a registration by ID
func (r *RegistrationRepository) GetByID(ctx context.Context, id int64) (*models.Registration, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByPlayerID retrieves the oldest registration linked to a player
func (r *RegistrationRepository) GetByPlayerID(ctx context.Context, playerID int64) (*models.Registration, error) {
	return r.getOne(ctx, squirrel.Eq{"player_id": playerID})
}

// FindByPlayerName returns registrations whose player snapshot contains the claimed names
func (r *RegistrationRepository) FindByPlayerName(ctx context.Context, firstName, lastName string) ([]*models.Registration, error) {
	return r.list(ctx, squirrel.And{
		squirrel.ILike{"player_firstname": containsPattern(firstName)},
		squirrel.ILike{"player_lastname": containsPattern(lastName)},
	})
}

// FindByParentEmail returns all registrations submitted by a parent
func (r *RegistrationRepository) FindByParentEmail(ctx context.Context, email string) ([]*models.Registration, error) {
	return r.list(ctx, squirrel.Eq{"LOWER(parent_email)": models.NormalizeEmail(email)})
}

// FindByPlayerEmail returns registrations already backfilled with a player's email
func (r *RegistrationRepository) FindByPlayerEmail(ctx context.Context, email string) ([]*models.Registration, error) {
	return r.list(ctx, squirrel.Eq{"LOWER(player_email)": models.NormalizeEmail(email)})
}

func (r *RegistrationRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Registration, error) {
	sql, args, err := r.sb.Select(registrationColumns...).From("registrations").Where(where).OrderBy("id").Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get registration query: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying registration: %w", err)
	}

	reg, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[models.Registration])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("error scanning registration: %w", err)
	}
	return reg, nil
}

func (r *RegistrationRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]*models.Registration, error) {
	sql, args, err := r.sb.Select(registrationColumns...).From("registrations").Where(where).OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list registrations query: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list registrations query")
		return nil, fmt.Errorf("error querying registrations: %w", err)
	}

	regs, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[models.Registration])
	if err != nil {
		return nil, fmt.Errorf("error scanning registrations: %w", err)
	}
	return regs, nil
}

// CompareAndSetPlayerID links a registration to a player only if the current link equals expected
func (r *RegistrationRepository) CompareAndSetPlayerID(ctx context.Context, registrationID int64, expected *int64, playerID int64) (bool, error) {
	guard := squirrel.Eq{"player_id": nil}
	if expected != nil {
		guard = squirrel.Eq{"player_id": *expected}
	}
	return r.setIf(ctx, registrationID, "player_id", playerID, guard)
}

// SetPlayerEmailIfNull backfills the player's email on a legacy registration
func (r *RegistrationRepository) SetPlayerEmailIfNull(ctx context.Context, registrationID int64, email string) (bool, error) {
	return r.setIf(ctx, registrationID, "player_email", models.NormalizeEmail(email),
		squirrel.Or{squirrel.Eq{"player_email": nil}, squirrel.Eq{"player_email": ""}})
}

// SetParentEmailIfEmpty fills the parent email when the form was submitted without one
func (r *RegistrationRepository) SetParentEmailIfEmpty(ctx context.Context, registrationID int64, email string) (bool, error) {
	return r.setIf(ctx, registrationID, "parent_email", models.NormalizeEmail(email),
		squirrel.Or{squirrel.Eq{"parent_email": nil}, squirrel.Eq{"parent_email": ""}})
}

func (r *RegistrationRepository) setIf(ctx context.Context, id int64, column string, value interface{}, guard squirrel.Sqlizer) (bool, error) {
	sql, args, err := r.sb.Update("registrations").
		Set(column, value).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(guard).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build set %s query: %w", column, err)
	}

	tag, err := r.db.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("registrationID", id).Str("column", column).Msg("Error updating registration link")
		return false, fmt.Errorf("error setting registration %s: %w", column, err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateStatus changes the review status
func (r *RegistrationRepository) UpdateStatus(ctx context.Context, registrationID int64, status models.RegistrationStatus) error {
	sql, args, err := r.sb.Update("registrations").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": registrationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update status query: %w", err)
	}

	tag, err := r.db.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating registration status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrRegistrationNotFound
	}
	return nil
}
