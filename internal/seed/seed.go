package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/academy/internal/app/models"
	appRepos "github.com/yigit/academy/internal/app/repositories"
	"github.com/yigit/academy/internal/pkg/apperrors"
	"github.com/yigit/academy/internal/pkg/auth"
)

// Defaults describes the data every installation starts with
type Defaults struct {
	CategoryID    int64
	CategoryName  string
	AdminEmail    string
	AdminPassword string
}

// CreateDefaultData creates the default category and the staff admin account if they don't exist.
// Failures are collected so one missing row does not hide another.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, defaults Defaults, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error

	category := &appModels.Category{ID: defaults.CategoryID, Name: defaults.CategoryName}
	if err := repos.CategoryRepository.Ensure(ctx, category); err != nil {
		lgr.Error().Err(err).Int64("categoryID", defaults.CategoryID).Msg("Error creating default category")
		finalErr = errors.Join(finalErr, err)
	}

	if defaults.AdminEmail == "" || defaults.AdminPassword == "" {
		lgr.Info().Msg("No admin credentials configured, skipping admin creation")
		return finalErr
	}

	_, err := repos.UserRepository.GetByEmail(ctx, defaults.AdminEmail)
	switch {
	case err == nil:
		lgr.Info().Msg("Admin user already exists, skipping creation")
	case errors.Is(err, apperrors.ErrResourceNotFound):
		hash, err := auth.HashPassword(defaults.AdminPassword)
		if err != nil {
			lgr.Error().Err(err).Msg("Error hashing admin password")
			return errors.Join(finalErr, err)
		}
		admin := &appModels.User{
			Name:     "Academy Staff",
			Email:    defaults.AdminEmail,
			Password: hash,
			RoleType: appModels.RoleAdmin,
		}
		if err := repos.UserRepository.Create(ctx, admin); err != nil && !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			lgr.Error().Err(err).Msg("Error creating admin user")
			finalErr = errors.Join(finalErr, err)
		} else if err == nil {
			lgr.Info().Int64("adminID", admin.ID).Msg("Default admin user created successfully")
		}
	default:
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		finalErr = errors.Join(finalErr, err)
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}
