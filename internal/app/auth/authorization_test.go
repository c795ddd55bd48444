package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/app/repositories/memstore"
	"github.com/yigit/academy/internal/pkg/apperrors"
)

func TestRegistrationAccess(t *testing.T) {
	ctx := context.Background()
	repos := memstore.New().Repositories()
	authz := NewAuthorizationService(repos.UserRepository)

	newUser := func(email string, role models.RoleType, playerID *int64) int64 {
		u := &models.User{Name: "x", Email: email, Password: "x", RoleType: role, PlayerID: playerID}
		require.NoError(t, repos.UserRepository.Create(ctx, u))
		return u.ID
	}
	playerID := int64(7)
	playerEmail := "amine@example.com"
	reg := &models.Registration{ID: 1, ParentEmail: "youssef@example.com", PlayerID: &playerID}

	admin := newUser("staff@example.com", models.RoleAdmin, nil)
	parent := newUser("youssef@example.com", models.RoleParent, nil)
	otherParent := newUser("other@example.com", models.RoleParent, nil)
	player := newUser("p7@example.com", models.RolePlayer, &playerID)
	byEmail := newUser(playerEmail, models.RolePlayer, nil)
	coach := newUser("karim@example.com", models.RoleCoach, nil)

	for _, id := range []int64{admin, parent, player} {
		assert.NoError(t, authz.ValidateRegistrationAccess(ctx, id, reg))
	}
	for _, id := range []int64{otherParent, byEmail, coach} {
		assert.ErrorIs(t, authz.ValidateRegistrationAccess(ctx, id, reg), apperrors.ErrPermissionDenied)
	}

	reg.PlayerEmail = &playerEmail
	assert.NoError(t, authz.ValidateRegistrationAccess(ctx, byEmail, reg))

	_, err := authz.CanViewRegistration(ctx, 999, reg)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
