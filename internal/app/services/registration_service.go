package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	appAuth "github.com/yigit/academy/internal/app/auth"
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/app/models/dto"
	"github.com/yigit/academy/internal/app/repositories"
	"github.com/yigit/academy/internal/pkg/apperrors"
	"github.com/yigit/academy/internal/pkg/validation"
)

// RegistrationService handles the public form and admin review
type RegistrationService struct {
	resolver *identityResolver
	repos    *repositories.Repositories
	linker   *Linker
	authz    *appAuth.AuthorizationService
	logger   zerolog.Logger
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(repos *repositories.Repositories, linker *Linker, authz *appAuth.AuthorizationService, logger zerolog.Logger) *RegistrationService {
	return &RegistrationService{
		resolver: &identityResolver{repos: repos, linker: linker},
		repos:    repos,
		linker:   linker,
		authz:    authz,
		logger:   logger,
	}
}

// Submit stores a new pending registration
func (s *RegistrationService) Submit(ctx context.Context, req *dto.SubmitRegistrationRequest) (*models.Registration, error) {
	req.PlayerFirstName = strings.TrimSpace(req.PlayerFirstName)
	req.PlayerLastName = strings.TrimSpace(req.PlayerLastName)
	req.ParentName = strings.TrimSpace(req.ParentName)
	req.ParentPhone = strings.TrimSpace(req.ParentPhone)
	req.ParentEmail = models.NormalizeEmail(req.ParentEmail)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	reg := &models.Registration{
		PlayerFirstName: req.PlayerFirstName,
		PlayerLastName:  req.PlayerLastName,
		PlayerBirthDate: req.PlayerBirthDate,
		ParentName:      req.ParentName,
		ParentEmail:     req.ParentEmail,
		ParentPhone:     req.ParentPhone,
		CategoryID:      req.CategoryID,
		Status:          models.RegistrationPending,
		PaymentStatus:   models.PaymentUnpaid,
	}

	log := s.logger.With().Str("playerFirstName", reg.PlayerFirstName).Str("playerLastName", reg.PlayerLastName).Logger()
	if err := s.repos.RegistrationRepository.Create(ctx, reg); err != nil {
		return nil, storeError(log, "registrations.Create", err)
	}
	log.Info().Int64("registrationID", reg.ID).Msg("Registration submitted")
	return reg, nil
}

// Get returns a registration by id
func (s *RegistrationService) Get(ctx context.Context, id int64) (*models.Registration, error) {
	reg, err := s.repos.RegistrationRepository.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(s.logger, "registrations.GetByID", err)
	}
	return reg, nil
}

// GetForUser returns a registration the user is allowed to read
func (s *RegistrationService) GetForUser(ctx context.Context, userID, id int64) (*models.Registration, error) {
	reg, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.ValidateRegistrationAccess(ctx, userID, reg); err != nil {
		if errors.Is(err, apperrors.ErrPermissionDenied) {
			s.logger.Info().Int64("userID", userID).Int64("registrationID", id).Msg("Registration access denied")
			return nil, err
		}
		return nil, storeError(s.logger, "authorizeRegistration", err)
	}
	return reg, nil
}

// Accept promotes a registration into a Player and marks it accepted. Accepting twice is a no-op.
func (s *RegistrationService) Accept(ctx context.Context, id int64) (*dto.AcceptRegistrationResponse, error) {
	log := s.logger.With().Int64("registrationID", id).Logger()

	reg, err := s.repos.RegistrationRepository.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(log, "registrations.GetByID", err)
	}
	if reg.Status == models.RegistrationRejected {
		return nil, apperrors.NewConflictError("registration was rejected")
	}

	player, created, err := s.playerFor(ctx, log, reg)
	if err != nil {
		return nil, err
	}

	if reg.Status != models.RegistrationAccepted {
		if err := s.repos.RegistrationRepository.UpdateStatus(ctx, reg.ID, models.RegistrationAccepted); err != nil {
			return nil, storeError(log, "registrations.UpdateStatus", err)
		}
	}

	log.Info().Int64("playerID", player.ID).Bool("playerCreated", created).Msg("Registration accepted")
	return &dto.AcceptRegistrationResponse{
		RegistrationID: reg.ID,
		PlayerID:       player.ID,
		Status:         string(models.RegistrationAccepted),
		PlayerCreated:  created,
	}, nil
}

// playerFor reuses a linked or name-matched Player before creating one from the snapshot
func (s *RegistrationService) playerFor(ctx context.Context, log zerolog.Logger, reg *models.Registration) (*models.Player, bool, error) {
	if reg.PlayerID != nil {
		player, err := s.resolver.livePlayer(ctx, *reg.PlayerID)
		if err != nil {
			return nil, false, storeError(log, "players.GetByID", err)
		}
		if player != nil {
			return player, false, nil
		}
	}

	player, err := s.resolver.matchPlayer(ctx, log, reg.PlayerFirstName, reg.PlayerLastName)
	if err != nil {
		return nil, false, err
	}
	if player != nil {
		if _, err := s.linker.LinkPlayerToRegistration(ctx, player, reg); err != nil {
			return nil, false, storeError(log, "linkPlayerToRegistration", err)
		}
		return player, false, nil
	}

	return s.resolver.promoteRegistration(ctx, log, reg)
}

// Reject marks a registration rejected. A registration already promoted to a Player cannot be rejected.
func (s *RegistrationService) Reject(ctx context.Context, id int64) (*models.Registration, error) {
	log := s.logger.With().Int64("registrationID", id).Logger()

	reg, err := s.repos.RegistrationRepository.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(log, "registrations.GetByID", err)
	}
	if reg.PlayerID != nil {
		return nil, apperrors.NewConflictError("registration is already linked to a player")
	}
	if reg.Status == models.RegistrationRejected {
		return reg, nil
	}

	if err := s.repos.RegistrationRepository.UpdateStatus(ctx, reg.ID, models.RegistrationRejected); err != nil {
		return nil, storeError(log, "registrations.UpdateStatus", err)
	}
	reg.Status = models.RegistrationRejected
	log.Info().Msg("Registration rejected")
	return reg, nil
}
