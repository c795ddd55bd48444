package services

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/academy/internal/pkg/apperrors"
)

// isDomainError reports whether err already carries one of the taxonomy kinds
func isDomainError(err error) bool {
	return apperrors.Is(err,
		apperrors.ErrValidationFailed,
		apperrors.ErrResourceNotFound,
		apperrors.ErrConflict,
		apperrors.ErrInvalidCredentials,
		apperrors.ErrStore,
	)
}

// storeError passes domain errors through and turns anything else into a StoreError,
// logging it with the request's identity fields so it can be reconciled by hand
func storeError(log zerolog.Logger, op string, err error) error {
	if isDomainError(err) {
		return err
	}
	log.Error().Err(err).Str("op", op).Msg("Store failure, identity may need manual reconciliation")
	return apperrors.NewStoreError(err)
}

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrResourceNotFound)
}

func isConflict(err error) bool {
	return errors.Is(err, apperrors.ErrConflict)
}

func newLinkConflict(message string) error {
	return apperrors.NewConflictError(message).WithCode(apperrors.CodeLinkConflict)
}

func newAccountExists() error {
	return apperrors.NewConflictError("account already exists, please log in").WithCode(apperrors.CodeAccountExists)
}

func newInvalidCredentials() error {
	return apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "invalid email or password").
		WithCode(apperrors.CodeInvalidCredential)
}

func ptr[T any](v T) *T {
	return &v
}
