package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/db"
)

// Transactor runs a unit of work atomically. Repositories called with the ctx handed to fn join the transaction.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// IUserRepository stores credential holders. Email is unique.
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByPlayerID returns the account holding a player, lowest id first
	GetByPlayerID(ctx context.Context, playerID int64) (*models.User, error)
	// CompareAndSetPlayerID writes player_id only while it still equals expected (nil meaning NULL)
	CompareAndSetPlayerID(ctx context.Context, userID int64, expected *int64, playerID int64) (bool, error)
	UpdateLastLogin(ctx context.Context, userID int64) error
}

// IPlayerRepository stores academy members
type IPlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int64) (*models.Player, error)
	// FindByName returns candidates whose names contain the given values case-insensitively, ordered by id
	FindByName(ctx context.Context, firstName, lastName string) ([]*models.Player, error)
}

// ICoachRepository stores staff members
type ICoachRepository interface {
	Create(ctx context.Context, coach *models.Coach) error
	GetByID(ctx context.Context, id int64) (*models.Coach, error)
	GetByEmail(ctx context.Context, email string) (*models.Coach, error)
	FindByName(ctx context.Context, name string) ([]*models.Coach, error)
	SetEmailIfEmpty(ctx context.Context, coachID int64, email string) (bool, error)
}

// IRegistrationRepository stores submitted applications
type IRegistrationRepository interface {
	Create(ctx context.Context, registration *models.Registration) error
	GetByID(ctx context.Context, id int64) (*models.Registration, error)
	GetByPlayerID(ctx context.Context, playerID int64) (*models.Registration, error)
	FindByPlayerName(ctx context.Context, firstName, lastName string) ([]*models.Registration, error)
	FindByParentEmail(ctx context.Context, email string) ([]*models.Registration, error)
	FindByPlayerEmail(ctx context.Context, email string) ([]*models.Registration, error)
	// CompareAndSetPlayerID writes player_id only while it still equals expected (nil meaning NULL)
	CompareAndSetPlayerID(ctx context.Context, registrationID int64, expected *int64, playerID int64) (bool, error)
	SetPlayerEmailIfNull(ctx context.Context, registrationID int64, email string) (bool, error)
	SetParentEmailIfEmpty(ctx context.Context, registrationID int64, email string) (bool, error)
	UpdateStatus(ctx context.Context, registrationID int64, status models.RegistrationStatus) error
}

// ITokenRepository tracks issued access tokens by their jti so they can be revoked
type ITokenRepository interface {
	Create(ctx context.Context, tokenID string, userID int64, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	Revoke(ctx context.Context, tokenID string) error
}

// ICategoryRepository reads categories and seeds the default one
type ICategoryRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	Ensure(ctx context.Context, category *models.Category) error
}

// Repositories holds all the repository instances
type Repositories struct {
	Tx                     Transactor
	UserRepository         IUserRepository
	PlayerRepository       IPlayerRepository
	CoachRepository        ICoachRepository
	RegistrationRepository IRegistrationRepository
	TokenRepository        ITokenRepository
	CategoryRepository     ICategoryRepository
}

// NewRepositories initializes all Postgres repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		Tx:                     database,
		UserRepository:         NewUserRepository(database),
		PlayerRepository:       NewPlayerRepository(database),
		CoachRepository:        NewCoachRepository(database),
		RegistrationRepository: NewRegistrationRepository(database),
		TokenRepository:        NewTokenRepository(database),
		CategoryRepository:     NewCategoryRepository(database),
	}
}

func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching values that contain s literally
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
