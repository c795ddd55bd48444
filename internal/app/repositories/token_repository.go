package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/academy/internal/db"
	"github.com/yigit/academy/internal/pkg/apperrors"
	"github.com/yigit/academy/internal/pkg/dberrors"
	"github.com/yigit/academy/internal/pkg/logger"
)

// TokenRepository handles access token bookkeeping
type TokenRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(database *db.PostgresDB) *TokenRepository {
	return &TokenRepository{
		db: database,
		sb: statementBuilder(),
	}
}

// Create records an issued token by its jti
func (r *TokenRepository) Create(ctx context.Context, tokenID string, userID int64, expiresAt time.Time) error {
	sql, args, err := r.sb.Insert("access_tokens").
		Columns("token_id", "user_id", "expires_at", "is_revoked", "created_at").
		Values(tokenID, userID, expiresAt, false, time.Now()).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create token SQL")
		return fmt.Errorf("failed to build create token query: %w", err)
	}

	if _, err := r.db.Conn(ctx).Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "access_tokens_pkey") {
			logger.Warn().Str("tokenID", tokenID).Msg("Attempted to create duplicate token")
			return apperrors.ErrTokenInvalid
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing create token query")
		return fmt.Errorf("error creating token: %w", err)
	}
	return nil
}

// IsRevoked reports whether a token was revoked. Unknown tokens count as revoked.
func (r *TokenRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	sql, args, err := r.sb.Select("is_revoked").
		From("access_tokens").
		Where(squirrel.Eq{"token_id": tokenID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build token lookup query: %w", err)
	}

	var revoked bool
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&revoked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return true, nil
		}
		return false, fmt.Errorf("error looking up token: %w", err)
	}
	return revoked, nil
}

// Revoke marks a token as revoked. Revoking twice is not an error.
func (r *TokenRepository) Revoke(ctx context.Context, tokenID string) error {
	sql, args, err := r.sb.Update("access_tokens").
		Set("is_revoked", true).
		Where(squirrel.Eq{"token_id": tokenID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build revoke token query: %w", err)
	}

	if _, err := r.db.Conn(ctx).Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("tokenID", tokenID).Msg("Error revoking token")
		return fmt.Errorf("error revoking token: %w", err)
	}
	return nil
}
