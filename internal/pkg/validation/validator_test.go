package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/academy/internal/pkg/apperrors"
)

type sample struct {
	Name  string `json:"name" validate:"required,notblank,max=5"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,oneof=player coach"`
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(&sample{Name: "Amine", Email: "a@example.com"}))

	err := Struct(&sample{Name: "   ", Email: "nope", Role: "admin"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, apperrors.CodeValidation, apperrors.Code(err))

	var ce *apperrors.CustomError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "is required", ce.Details["name"])
	assert.Equal(t, "must be a valid email address", ce.Details["email"])
	assert.Equal(t, "must be one of: player coach", ce.Details["role"])
}

func TestStruct_MaxLength(t *testing.T) {
	err := Struct(&sample{Name: "Abdelkarim", Email: "a@example.com"})
	var ce *apperrors.CustomError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "must be at most 5 characters", ce.Details["name"])
}
