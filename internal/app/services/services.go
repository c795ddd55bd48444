package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	appAuth "github.com/yigit/academy/internal/app/auth"
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/app/repositories"
	"github.com/yigit/academy/internal/pkg/auth"
	"github.com/yigit/academy/internal/pkg/email"
	"github.com/yigit/academy/internal/pkg/lock"
)

// TokenIssuer mints and revokes bearer tokens for resolved users
type TokenIssuer interface {
	IssueToken(ctx context.Context, user *models.User) (*auth.IssuedToken, error)
	RevokeToken(ctx context.Context, token string) error
}

// Settings are the deployment-specific policy values
type Settings struct {
	// DefaultCategoryID is assigned to coaches created by a claim without a category
	DefaultCategoryID       int64
	GeneratedPasswordLength int
	ClaimLockTTL            time.Duration
}

// Services holds all the service instances
type Services struct {
	Linker              *Linker
	ClaimService        *ClaimService
	AuthService         *AuthService
	RegistrationService *RegistrationService
}

// NewServices wires every service over one set of repositories
func NewServices(
	repos *repositories.Repositories,
	issuer TokenIssuer,
	locker lock.Locker,
	mailer email.EmailService,
	settings Settings,
	logger zerolog.Logger,
) *Services {
	linker := NewLinker(repos, logger.With().Str("component", "linker").Logger())
	return &Services{
		Linker:              linker,
		ClaimService:        NewClaimService(repos, linker, issuer, locker, mailer, settings, logger.With().Str("component", "claim").Logger()),
		AuthService:         NewAuthService(repos, linker, issuer, logger.With().Str("component", "auth").Logger()),
		RegistrationService: NewRegistrationService(repos, linker, appAuth.NewAuthorizationService(repos.UserRepository), logger.With().Str("component", "registration").Logger()),
	}
}
