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

var playerColumns = []string{"id", "firstname", "lastname", "birth_date", "category_id", "yellow_cards", "created_at", "updated_at"}

// PlayerRepository handles player database operations
type PlayerRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewPlayerRepository creates a new PlayerRepository
func NewPlayerRepository(database *db.PostgresDB) *PlayerRepository {
	return &PlayerRepository{
		db: database,
		sb: statementBuilder(),
	}
}

// Create inserts a player
func (r *PlayerRepository) Create(ctx context.Context, player *models.Player) error {
	sql, args, err := r.sb.Insert("players").
		Columns("firstname", "lastname", "birth_date", "category_id", "yellow_cards").
		Values(player.FirstName, player.LastName, player.BirthDate, player.CategoryID, player.YellowCards).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create player query: %w", err)
	}

	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&player.ID, &player.CreatedAt, &player.UpdatedAt); err != nil {
		logger.Error().Err(err).Str("firstName", player.FirstName).Str("lastName", player.LastName).Msg("Error executing create player query")
		return fmt.Errorf("error creating player: %w", err)
	}

	logger.Info().Int64("playerID", player.ID).Msg("Player created successfully")
	return nil
}

// GetByID retrieves a player by ID
func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (*models.Player, error) {
	sql, args, err := r.sb.Select(playerColumns...).From("players").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get player query: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying player: %w", err)
	}

	player, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[models.Player])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("error scanning player: %w", err)
	}
	return player, nil
}

// FindByName returns name-matching candidates in id order
func (r *PlayerRepository) FindByName(ctx context.Context, firstName, lastName string) ([]*models.Player, error) {
	sql, args, err := r.sb.Select(playerColumns...).
		From("players").
		Where(squirrel.ILike{"firstname": containsPattern(firstName)}).
		Where(squirrel.ILike{"lastname": containsPattern(lastName)}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find players query: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing find players by name query")
		return nil, fmt.Errorf("error querying players: %w", err)
	}

	players, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[models.Player])
	if err != nil {
		return nil, fmt.Errorf("error scanning players: %w", err)
	}
	return players, nil
}
