package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/app/repositories/memstore"
	"github.com/yigit/academy/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateDefaultData_Idempotent(t *testing.T) {
	auth.BcryptCost = bcrypt.MinCost
	ctx := context.Background()
	repos := memstore.New().Repositories()
	defaults := Defaults{CategoryID: 1, CategoryName: "Unassigned", AdminEmail: "staff@example.com", AdminPassword: "change-me-now"}

	require.NoError(t, CreateDefaultData(ctx, repos, defaults, zerolog.Nop()))
	require.NoError(t, CreateDefaultData(ctx, repos, defaults, zerolog.Nop()))

	category, err := repos.CategoryRepository.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Unassigned", category.Name)

	admin, err := repos.UserRepository.GetByEmail(ctx, "staff@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.RoleType)
	assert.True(t, auth.CheckPassword(admin.Password, "change-me-now"))
}

func TestCreateDefaultData_CollectsErrors(t *testing.T) {
	store := memstore.New()
	store.FailNext("categories.Ensure", errors.New("read-only transaction"))

	err := CreateDefaultData(context.Background(), store.Repositories(), Defaults{CategoryID: 1, CategoryName: "Unassigned"}, zerolog.Nop())
	assert.ErrorContains(t, err, "read-only transaction")
}
