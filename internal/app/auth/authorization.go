package auth

import (
	"context"

	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/app/repositories"
	"github.com/yigit/academy/internal/pkg/apperrors"
)

// AuthorizationService decides which accounts may read a registration
type AuthorizationService struct {
	userRepo repositories.IUserRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(userRepo repositories.IUserRepository) *AuthorizationService {
	return &AuthorizationService{userRepo: userRepo}
}

// CanViewRegistration reports whether the user may read reg. Staff see everything,
// parents see what they submitted and players see their own registration.
func (s *AuthorizationService) CanViewRegistration(ctx context.Context, userID int64, reg *models.Registration) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}

	switch user.RoleType {
	case models.RoleAdmin:
		return true, nil
	case models.RoleParent:
		return reg.ParentEmail != "" && models.NormalizeEmail(reg.ParentEmail) == user.Email, nil
	case models.RolePlayer:
		if user.PlayerID != nil && reg.PlayerID != nil && *user.PlayerID == *reg.PlayerID {
			return true, nil
		}
		return reg.PlayerEmail != nil && models.NormalizeEmail(*reg.PlayerEmail) == user.Email, nil
	}
	return false, nil
}

// ValidateRegistrationAccess returns ErrPermissionDenied when the user may not read reg
func (s *AuthorizationService) ValidateRegistrationAccess(ctx context.Context, userID int64, reg *models.Registration) error {
	ok, err := s.CanViewRegistration(ctx, userID, reg)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrPermissionDenied
	}
	return nil
}
