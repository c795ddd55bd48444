package services

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/app/models/dto"
	"github.com/yigit/academy/internal/app/repositories"
	"github.com/yigit/academy/internal/pkg/apperrors"
	"github.com/yigit/academy/internal/pkg/auth"
	"github.com/yigit/academy/internal/pkg/email"
	"github.com/yigit/academy/internal/pkg/lock"
	"github.com/yigit/academy/internal/pkg/validation"
)

// ClaimService turns unauthenticated identity claims into accounts
type ClaimService struct {
	resolver *identityResolver
	repos    *repositories.Repositories
	linker   *Linker
	issuer   TokenIssuer
	locker   lock.Locker
	mailer   email.EmailService
	settings Settings
	logger   zerolog.Logger
}

// NewClaimService creates a new ClaimService
func NewClaimService(
	repos *repositories.Repositories,
	linker *Linker,
	issuer TokenIssuer,
	locker lock.Locker,
	mailer email.EmailService,
	settings Settings,
	logger zerolog.Logger,
) *ClaimService {
	return &ClaimService{
		resolver: &identityResolver{repos: repos, linker: linker},
		repos:    repos,
		linker:   linker,
		issuer:   issuer,
		locker:   locker,
		mailer:   mailer,
		settings: settings,
		logger:   logger,
	}
}

// acquire takes the per-email claim lock. An unreachable lock backend is logged and
// the claim proceeds, protected by the unique email constraint alone.
func (s *ClaimService) acquire(ctx context.Context, log zerolog.Logger, email string) (func(), error) {
	release, err := s.locker.Acquire(ctx, "claim:"+email, s.settings.ClaimLockTTL)
	if err == nil {
		return release, nil
	}
	if errors.Is(err, apperrors.ErrClaimInProgress) {
		log.Warn().Msg("Concurrent claim for the same email rejected")
		return nil, err
	}
	log.Warn().Err(err).Msg("Claim lock unavailable, relying on email uniqueness")
	return func() {}, nil
}

// existingUser returns the user holding email, or nil
func (s *ClaimService) existingUser(ctx context.Context, log zerolog.Logger, email string) (*models.User, error) {
	user, err := s.repos.UserRepository.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if isNotFound(err) {
		return nil, nil
	}
	return nil, storeError(log, "users.GetByEmail", err)
}

// createUser inserts a user with a generated password and issues its first token atomically
func (s *ClaimService) createUser(ctx context.Context, user *models.User) (string, *auth.IssuedToken, error) {
	password, err := auth.GeneratePassword(s.settings.GeneratedPasswordLength)
	if err != nil {
		return "", nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", nil, err
	}
	user.Password = hash

	var token *auth.IssuedToken
	err = s.repos.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.repos.UserRepository.Create(ctx, user); err != nil {
			return err
		}
		issued, err := s.issuer.IssueToken(ctx, user)
		token = issued
		return err
	})
	if err != nil {
		return "", nil, err
	}
	return password, token, nil
}

// ClaimPlayerAccount resolves a player claim to a Player, its Registration and a User
func (s *ClaimService) ClaimPlayerAccount(ctx context.Context, req *dto.ClaimPlayerRequest) (*dto.ClaimPlayerResponse, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = models.NormalizeEmail(req.Email)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	log := s.logger.With().
		Str("claim", string(models.RolePlayer)).
		Str("firstName", req.FirstName).
		Str("lastName", req.LastName).
		Str("email", req.Email).
		Logger()

	release, err := s.acquire(ctx, log, req.Email)
	if err != nil {
		return nil, err
	}
	defer release()

	// Reject accounts that can never be linked before writing anything
	user, err := s.existingUser(ctx, log, req.Email)
	if err != nil {
		return nil, err
	}
	if user != nil && (user.RoleType != models.RolePlayer || user.PlayerID != nil) {
		log.Info().Int64("userID", user.ID).Msg("Player claim for an email that already has an account")
		return nil, newAccountExists()
	}

	player, err := s.resolver.resolvePlayer(ctx, log, req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}

	// One account per player: a name match never hands another account's player to this email
	holder, err := s.resolver.playerHolder(ctx, player.ID)
	if err != nil {
		return nil, storeError(log, "users.GetByPlayerID", err)
	}
	if holder != nil {
		log.Info().Int64("playerID", player.ID).Int64("holderID", holder.ID).Msg("Player claim for a player that already has an account")
		return nil, newAccountExists()
	}

	reg, err := s.resolver.resolveRegistration(ctx, log, player)
	if err != nil {
		return nil, err
	}

	if _, err := s.linker.BackfillPlayerEmail(ctx, reg, req.Email); err != nil {
		return nil, storeError(log, "backfillPlayerEmail", err)
	}

	// A unique violation means a concurrent claim created the user; resolve again as existing
	for attempt := 0; attempt < 2; attempt++ {
		user, err := s.existingUser(ctx, log, req.Email)
		if err != nil {
			return nil, err
		}
		if user != nil {
			return s.linkExistingPlayerUser(ctx, log, user, player, reg)
		}

		user = &models.User{
			Name:     player.FullName(),
			Email:    req.Email,
			RoleType: models.RolePlayer,
			PlayerID: ptr(player.ID),
		}
		password, token, err := s.createUser(ctx, user)
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			log.Warn().Msg("User created concurrently, re-resolving as existing account")
			continue
		}
		if errors.Is(err, apperrors.ErrPlayerAlreadyClaimed) {
			log.Info().Int64("playerID", player.ID).Msg("Player claimed concurrently by another email")
			return nil, newAccountExists()
		}
		if err != nil {
			return nil, storeError(log, "createUser", err)
		}

		log.Info().Int64("userID", user.ID).Int64("playerID", player.ID).Msg("Player account created")
		return &dto.ClaimPlayerResponse{
			Status:            dto.ClaimCreated,
			User:              user,
			Player:            player,
			Registration:      reg,
			Token:             token,
			GeneratedPassword: password,
		}, nil
	}
	return nil, newAccountExists()
}

func (s *ClaimService) linkExistingPlayerUser(
	ctx context.Context,
	log zerolog.Logger,
	user *models.User,
	player *models.Player,
	reg *models.Registration,
) (*dto.ClaimPlayerResponse, error) {
	if user.RoleType != models.RolePlayer || user.PlayerID != nil {
		return nil, newAccountExists()
	}

	if _, err := s.linker.LinkUserToPlayer(ctx, user, player); err != nil {
		if errors.Is(err, apperrors.ErrPlayerAlreadyClaimed) {
			return nil, newAccountExists()
		}
		return nil, storeError(log, "linkUserToPlayer", err)
	}

	token, err := s.issuer.IssueToken(ctx, user)
	if err != nil {
		return nil, storeError(log, "issueToken", err)
	}

	log.Info().Int64("userID", user.ID).Int64("playerID", player.ID).Msg("Existing account linked to player")
	return &dto.ClaimPlayerResponse{
		Status:       dto.ClaimLinked,
		User:         user,
		Player:       player,
		Registration: reg,
		Token:        token,
	}, nil
}

// ClaimCoachAccount resolves a coach claim, creating the Coach record when none matches
func (s *ClaimService) ClaimCoachAccount(ctx context.Context, req *dto.ClaimCoachRequest) (*dto.ClaimCoachResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = models.NormalizeEmail(req.Email)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	log := s.logger.With().
		Str("claim", string(models.RoleCoach)).
		Str("name", req.Name).
		Str("email", req.Email).
		Logger()

	if req.CategoryID != nil {
		if _, err := s.repos.CategoryRepository.GetByID(ctx, *req.CategoryID); err != nil {
			if isNotFound(err) {
				return nil, apperrors.NewValidationError("unknown category").
					WithDetails(map[string]interface{}{"categoryId": *req.CategoryID})
			}
			return nil, storeError(log, "categories.GetByID", err)
		}
	}

	release, err := s.acquire(ctx, log, req.Email)
	if err != nil {
		return nil, err
	}
	defer release()

	existing, err := s.existingUser(ctx, log, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		log.Info().Int64("userID", existing.ID).Msg("Coach claim for an email that already has an account")
		return nil, newAccountExists()
	}

	coach, err := s.resolveCoach(ctx, log, req)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     coach.Name,
		Email:    req.Email,
		RoleType: models.RoleCoach,
	}
	password, token, err := s.createUser(ctx, user)
	if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		return nil, newAccountExists()
	}
	if err != nil {
		return nil, storeError(log, "createUser", err)
	}

	log.Info().Int64("userID", user.ID).Int64("coachID", coach.ID).Msg("Coach account created")
	s.sendWelcome(log, user)

	return &dto.ClaimCoachResponse{
		Status:            dto.ClaimCreated,
		Coach:             coach,
		User:              user,
		Token:             token,
		GeneratedPassword: password,
	}, nil
}

func (s *ClaimService) resolveCoach(ctx context.Context, log zerolog.Logger, req *dto.ClaimCoachRequest) (*models.Coach, error) {
	coach, byEmail, err := s.resolver.matchCoach(ctx, log, req.Email, req.Name)
	if err != nil {
		return nil, err
	}
	if coach != nil {
		if !byEmail {
			if _, err := s.linker.LinkCoachEmail(ctx, coach, req.Email); err != nil {
				return nil, storeError(log, "linkCoachEmail", err)
			}
		}
		return coach, nil
	}

	categoryID := req.CategoryID
	if categoryID == nil {
		categoryID = ptr(s.settings.DefaultCategoryID)
	}
	coach = &models.Coach{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Diploma:    req.Diploma,
		CategoryID: categoryID,
	}
	if err := s.repos.CoachRepository.Create(ctx, coach); err != nil {
		return nil, storeError(log, "coaches.Create", err)
	}
	log.Info().Int64("coachID", coach.ID).Int64("categoryID", *categoryID).Msg("Coach record created from claim")
	return coach, nil
}

// ClaimParentAccount resolves a parent claim to every registration they submitted
func (s *ClaimService) ClaimParentAccount(ctx context.Context, req *dto.ClaimParentRequest) (*dto.ClaimParentResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = models.NormalizeEmail(req.Email)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	log := s.logger.With().
		Str("claim", string(models.RoleParent)).
		Str("name", req.Name).
		Str("email", req.Email).
		Logger()

	release, err := s.acquire(ctx, log, req.Email)
	if err != nil {
		return nil, err
	}
	defer release()

	existing, err := s.existingUser(ctx, log, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		log.Info().Int64("userID", existing.ID).Msg("Parent claim for an email that already has an account")
		return nil, newAccountExists()
	}

	regs, err := s.resolveParentRegistrations(ctx, log, req)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		RoleType: models.RoleParent,
	}
	password, token, err := s.createUser(ctx, user)
	if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		return nil, newAccountExists()
	}
	if err != nil {
		return nil, storeError(log, "createUser", err)
	}

	log.Info().Int64("userID", user.ID).Int("registrations", len(regs)).Msg("Parent account created")
	s.sendWelcome(log, user)

	return &dto.ClaimParentResponse{
		Status:            dto.ClaimCreated,
		User:              user,
		Registrations:     regs,
		Token:             token,
		GeneratedPassword: password,
	}, nil
}

func (s *ClaimService) resolveParentRegistrations(ctx context.Context, log zerolog.Logger, req *dto.ClaimParentRequest) ([]*models.Registration, error) {
	regs, err := s.repos.RegistrationRepository.FindByParentEmail(ctx, req.Email)
	if err != nil {
		return nil, storeError(log, "registrations.FindByParentEmail", err)
	}

	if req.PlayerID != nil {
		reg, err := s.repos.RegistrationRepository.GetByPlayerID(ctx, *req.PlayerID)
		switch {
		case err == nil:
			known := slices.ContainsFunc(regs, func(r *models.Registration) bool { return r.ID == reg.ID })
			if !known {
				if _, err := s.linker.LinkParentEmail(ctx, reg, req.Email); err != nil {
					return nil, storeError(log, "linkParentEmail", err)
				}
				regs = append(regs, reg)
				slices.SortFunc(regs, func(a, b *models.Registration) int { return cmp.Compare(a.ID, b.ID) })
			}
		case !isNotFound(err):
			return nil, storeError(log, "registrations.GetByPlayerID", err)
		}
	}

	if len(regs) == 0 {
		log.Info().Msg("Parent claim matched no registration")
		return nil, apperrors.NewNotFoundError("no registration found for this parent")
	}
	return regs, nil
}

// sendWelcome never fails the claim
func (s *ClaimService) sendWelcome(log zerolog.Logger, user *models.User) {
	if s.mailer == nil {
		return
	}
	if err := s.mailer.SendWelcomeEmail(user.Email, user.Name, user.RoleType); err != nil {
		log.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to send welcome email")
	}
}
