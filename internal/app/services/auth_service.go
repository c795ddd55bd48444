package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/app/models/dto"
	"github.com/yigit/academy/internal/app/repositories"
	"github.com/yigit/academy/internal/pkg/apperrors"
	"github.com/yigit/academy/internal/pkg/auth"
	"github.com/yigit/academy/internal/pkg/validation"
)

// AuthService handles login, logout and the repair-on-read of operational records
type AuthService struct {
	resolver *identityResolver
	repos    *repositories.Repositories
	linker   *Linker
	issuer   TokenIssuer
	logger   zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(repos *repositories.Repositories, linker *Linker, issuer TokenIssuer, logger zerolog.Logger) *AuthService {
	return &AuthService{
		resolver: &identityResolver{repos: repos, linker: linker},
		repos:    repos,
		linker:   linker,
		issuer:   issuer,
		logger:   logger,
	}
}

// Login authenticates a user for the expected role, then re-resolves and repairs
// the user's operational record. The error never tells which check failed.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	req.Email = models.NormalizeEmail(req.Email)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	log := s.logger.With().Str("email", req.Email).Str("role", string(req.Role)).Logger()

	user, err := s.repos.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if isNotFound(err) {
			auth.CheckPassword(auth.DecoyHash(), req.Password)
			log.Info().Msg("Login for unknown email")
			return nil, newInvalidCredentials()
		}
		return nil, storeError(log, "users.GetByEmail", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		log.Info().Int64("userID", user.ID).Msg("Login with wrong password")
		return nil, newInvalidCredentials()
	}
	if user.RoleType != req.Role {
		log.Info().Int64("userID", user.ID).Str("actualRole", string(user.RoleType)).Msg("Login with wrong role")
		return nil, newInvalidCredentials()
	}

	profile, err := s.ResolveAndRepair(ctx, user)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		log.Warn().Int64("userID", user.ID).Msg("Login succeeded but no operational record could be resolved")
		return &dto.LoginResponse{Status: dto.LoginNoProfile, User: user}, nil
	}

	token, err := s.issuer.IssueToken(ctx, user)
	if err != nil {
		return nil, storeError(log, "issueToken", err)
	}

	if err := s.repos.UserRepository.UpdateLastLogin(ctx, user.ID); err != nil {
		log.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to update last login time")
	}

	return &dto.LoginResponse{
		Status:  dto.LoginOK,
		User:    user,
		Profile: profile,
		Token:   token,
	}, nil
}

// Logout revokes the bearer token
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.issuer.RevokeToken(ctx, token); err != nil {
		if apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrTokenExpired) {
			return err
		}
		return storeError(s.logger, "revokeToken", err)
	}
	return nil
}

// Profile re-runs resolution for an authenticated user
func (s *AuthService) Profile(ctx context.Context, userID int64) (*dto.LoginResponse, error) {
	user, err := s.repos.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return nil, storeError(s.logger, "users.GetByID", err)
	}

	profile, err := s.ResolveAndRepair(ctx, user)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return &dto.LoginResponse{Status: dto.LoginNoProfile, User: user}, nil
	}
	return &dto.LoginResponse{Status: dto.LoginOK, User: user, Profile: profile}, nil
}

// ResolveAndRepair finds the operational record behind user and writes back any
// missing or stale link on the way. A nil profile means nothing could be resolved.
func (s *AuthService) ResolveAndRepair(ctx context.Context, user *models.User) (*dto.Profile, error) {
	log := s.logger.With().Int64("userID", user.ID).Str("email", user.Email).Str("role", string(user.RoleType)).Logger()

	switch user.RoleType {
	case models.RolePlayer:
		return s.repairPlayer(ctx, log, user)
	case models.RoleCoach:
		return s.repairCoach(ctx, log, user)
	case models.RoleParent:
		return s.repairParent(ctx, log, user)
	case models.RoleAdmin:
		return &dto.Profile{}, nil
	}
	return nil, nil
}

func (s *AuthService) repairPlayer(ctx context.Context, log zerolog.Logger, user *models.User) (*dto.Profile, error) {
	var player *models.Player
	if user.PlayerID != nil {
		p, err := s.resolver.livePlayer(ctx, *user.PlayerID)
		if err != nil {
			return nil, storeError(log, "players.GetByID", err)
		}
		if p == nil {
			log.Warn().Int64("stalePlayerID", *user.PlayerID).Msg("Account linked to a deleted player, re-resolving")
		}
		player = p
	}

	if player == nil {
		candidate, err := s.findPlayerForUser(ctx, log, user)
		if err != nil {
			return nil, err
		}
		if candidate == nil {
			return nil, nil
		}
		holder, err := s.resolver.playerHolder(ctx, candidate.ID)
		if err != nil {
			return nil, storeError(log, "users.GetByPlayerID", err)
		}
		if holder != nil && holder.ID != user.ID {
			log.Warn().Int64("playerID", candidate.ID).Int64("holderID", holder.ID).Msg("Matched player belongs to another account, not linking")
			return nil, nil
		}

		if _, err := s.linker.LinkUserToPlayer(ctx, user, candidate); err != nil {
			if !isConflict(err) {
				return nil, storeError(log, "linkUserToPlayer", err)
			}
			// Another request linked the account meanwhile; trust the stored link
			fresh, ferr := s.repos.UserRepository.GetByID(ctx, user.ID)
			if ferr != nil {
				return nil, storeError(log, "users.GetByID", ferr)
			}
			*user = *fresh
			if user.PlayerID == nil {
				return nil, nil
			}
			if candidate, err = s.resolver.livePlayer(ctx, *user.PlayerID); err != nil || candidate == nil {
				return nil, storeErrorOrNil(log, "players.GetByID", err)
			}
		}
		player = candidate
	}

	reg, err := s.resolver.resolveRegistration(ctx, log, player)
	switch {
	case err == nil:
		if _, err := s.linker.BackfillPlayerEmail(ctx, reg, user.Email); err != nil {
			return nil, storeError(log, "backfillPlayerEmail", err)
		}
	case isNotFound(err) || isConflict(err):
		log.Debug().Err(err).Int64("playerID", player.ID).Msg("Player has no resolvable registration")
		reg = nil
	default:
		return nil, err
	}

	return &dto.Profile{Player: player, Registration: reg}, nil
}

// findPlayerForUser looks through registrations carrying the user's email first,
// then falls back to matching the account name
func (s *AuthService) findPlayerForUser(ctx context.Context, log zerolog.Logger, user *models.User) (*models.Player, error) {
	regs, err := s.repos.RegistrationRepository.FindByPlayerEmail(ctx, user.Email)
	if err != nil {
		return nil, storeError(log, "registrations.FindByPlayerEmail", err)
	}
	for _, reg := range regs {
		if reg.PlayerID == nil {
			continue
		}
		player, err := s.resolver.livePlayer(ctx, *reg.PlayerID)
		if err != nil {
			return nil, storeError(log, "players.GetByID", err)
		}
		if player != nil {
			return player, nil
		}
	}

	first, last := splitName(user.Name)
	if first == "" {
		return nil, nil
	}
	return s.resolver.matchPlayer(ctx, log, first, last)
}

func (s *AuthService) repairCoach(ctx context.Context, log zerolog.Logger, user *models.User) (*dto.Profile, error) {
	coach, byEmail, err := s.resolver.matchCoach(ctx, log, user.Email, user.Name)
	if err != nil {
		return nil, err
	}
	if coach == nil {
		return nil, nil
	}

	if !byEmail {
		if _, err := s.linker.LinkCoachEmail(ctx, coach, user.Email); err != nil {
			if isConflict(err) {
				log.Warn().Int64("coachID", coach.ID).Msg("Coach matched by name carries another email, not linking")
				return nil, nil
			}
			return nil, storeError(log, "linkCoachEmail", err)
		}
	}
	return &dto.Profile{Coach: coach}, nil
}

func (s *AuthService) repairParent(ctx context.Context, log zerolog.Logger, user *models.User) (*dto.Profile, error) {
	regs, err := s.repos.RegistrationRepository.FindByParentEmail(ctx, user.Email)
	if err != nil {
		return nil, storeError(log, "registrations.FindByParentEmail", err)
	}
	if len(regs) == 0 {
		return nil, nil
	}
	return &dto.Profile{Registrations: regs}, nil
}

func storeErrorOrNil(log zerolog.Logger, op string, err error) error {
	if err == nil {
		return nil
	}
	return storeError(log, op, err)
}
